package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freelance-marketplace/internal/api/dto"
	"github.com/spec-kit/freelance-marketplace/internal/auth"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

func currentPrincipal(c *fiber.Ctx) (auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal == nil {
		return auth.Principal{}, apperrors.NewUnauthorized("authentication required")
	}
	return *principal, nil
}

// parseBody decodes the request body into req and validates it.
func parseBody(c *fiber.Ctx, req dto.Validatable) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Check(req)
}
