package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/freelance-marketplace/internal/observability"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

func newMiddlewareApp(t *testing.T) (*fiber.App, *observability.Metrics) {
	t.Helper()
	app := fiber.New()
	metrics := observability.NewMetrics()
	RegisterMiddlewares(app, zaptest.NewLogger(t), metrics, time.Second)

	app.Get("/jobs/:id", func(c *fiber.Ctx) error {
		return apperrors.NewNotFound("job", map[string]any{"id": c.Params("id")})
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("kaboom")
	})
	app.Get("/deadline", func(c *fiber.Ctx) error {
		if _, ok := c.UserContext().Deadline(); !ok {
			return apperrors.NewInternalError(nil)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app, metrics
}

func readEnvelope(t *testing.T, body io.Reader) errorBody {
	t.Helper()
	var env struct {
		Error errorBody `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&env))
	return env.Error
}

func TestErrorEnvelopeUsesRoutePatternForMetrics(t *testing.T) {
	app, metrics := newMiddlewareApp(t)

	for _, id := range []string{"a", "b"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/jobs/"+id, nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))

		body := readEnvelope(t, resp.Body)
		assert.Equal(t, apperrors.CodeNotFound, body.Code)
		assert.Equal(t, id, body.Details["id"])
	}

	snap := metrics.Snapshot()
	assert.Equal(t, int64(2), snap.Errors["/jobs/:id|GET|"+apperrors.CodeNotFound])
	assert.Equal(t, int64(2), snap.Requests["/jobs/:id|GET|404"])
}

func TestErrorEnvelopeRecoversPanics(t *testing.T) {
	app, _ := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	body := readEnvelope(t, resp.Body)
	assert.Equal(t, apperrors.CodeInternal, body.Code)
	assert.Empty(t, body.Details)
}

func TestRequestDeadlineIsApplied(t *testing.T) {
	app, _ := newMiddlewareApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/deadline", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
}
