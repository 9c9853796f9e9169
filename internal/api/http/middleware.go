package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.uber.org/zap"

	"github.com/spec-kit/freelance-marketplace/internal/observability"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

// RegisterMiddlewares installs the global chain. Order matters: the request ID
// must exist before anything logs, and the error envelope must wrap the
// access logger so logged statuses match what the client receives.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(requestid.New())
	if timeout > 0 {
		app.Use(requestDeadline(timeout))
	}
	app.Use(errorEnvelope(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

// requestDeadline bounds the user context handed to services and repositories.
func requestDeadline(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// errorEnvelope converts handler errors and panics into
// {"error": {"code", "message", "details"}} with the mapped status.
func errorEnvelope(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.String("request_id", requestID(c)),
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err == nil {
				return
			}

			domainErr := apperrors.ToDomainError(err)
			metrics.RecordError(routePattern(c), c.Method(), domainErr.Code)
			if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
				logger.Error("request failed",
					zap.String("request_id", requestID(c)),
					zap.String("method", c.Method()),
					zap.String("path", c.Path()),
					zap.Error(domainErr))
			}
			err = writeError(c, domainErr, logger)
		}()
		return c.Next()
	}
}

func writeError(c *fiber.Ctx, domainErr *apperrors.DomainError, logger *zap.Logger) error {
	body := errorBody{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Details: domainErr.Details,
	}
	if err := c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body}); err != nil {
		logger.Error("encode error response", zap.String("code", domainErr.Code), zap.Error(err))
		return c.SendStatus(domainErr.HTTPStatus)
	}
	return nil
}

// routePattern returns the matched route template ("/jobs/:id/hire") so
// error counters do not grow one key per job ID.
func routePattern(c *fiber.Ctx) string {
	if route := c.Route(); route != nil && route.Path != "" {
		return route.Path
	}
	return c.Path()
}

func requestID(c *fiber.Ctx) string {
	return c.GetRespHeader(fiber.HeaderXRequestID)
}
