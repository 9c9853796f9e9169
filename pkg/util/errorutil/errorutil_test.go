package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"domain", NewForbidden("no"), CodeForbidden, http.StatusForbidden},
		{"wrapped domain", fmt.Errorf("ctx: %w", NewConflict("dup", nil)), CodeConflict, http.StatusConflict},
		{"no rows", fmt.Errorf("query: %w", pgx.ErrNoRows), CodeNotFound, http.StatusNotFound},
		{"fiber not found", fiber.ErrNotFound, CodeNotFound, http.StatusNotFound},
		{"fiber body limit", fiber.ErrRequestEntityTooLarge, CodeValidation, http.StatusRequestEntityTooLarge},
		{"fiber 503", fiber.ErrServiceUnavailable, CodeInternal, http.StatusInternalServerError},
		{"plain", errors.New("boom"), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			de := ToDomainError(tc.err)
			assert.Equal(t, tc.code, de.Code)
			assert.Equal(t, tc.status, de.HTTPStatus)
		})
	}
	assert.Nil(t, ToDomainError(nil))
}

func TestInvalidCredentialsIsUnauthorized(t *testing.T) {
	err := NewInvalidCredentials()
	assert.True(t, HasCode(err, CodeInvalidCredentials))
	assert.Equal(t, http.StatusUnauthorized, ToDomainError(err).HTTPStatus)
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewInternalError(cause)
	de := ToDomainError(err)
	assert.Equal(t, "internal server error", de.Message)
	assert.ErrorIs(t, err, cause)
}
