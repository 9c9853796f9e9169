package handlers

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/freelance-marketplace/internal/api/dto"
	"github.com/spec-kit/freelance-marketplace/internal/service"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

const (
	bioField    = "bio"
	avatarField = "avatar"
)

// ProfileHandler serves the caller's own profile.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	profile, err := h.profiles.GetProfile(c.UserContext(), principal.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*profile)})
}

// Update handles PUT /profile. It accepts multipart/form-data with optional
// "bio" and "avatar" parts, or a JSON body carrying only bio. An empty body
// leaves the profile unchanged.
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var input service.ProfileUpdateInput
	switch {
	case c.Is("json"):
		var req dto.UpdateProfileRequest
		if err := parseBody(c, &req); err != nil {
			return err
		}
		input.Bio = req.Bio
	case len(c.Request().Header.MultipartFormBoundary()) > 0:
		form, err := c.MultipartForm()
		if err != nil {
			return apperrors.NewValidationError("invalid multipart form", nil)
		}
		if values := form.Value[bioField]; len(values) > 0 {
			bio := values[0]
			if err := dto.Check(dto.UpdateProfileRequest{Bio: &bio}); err != nil {
				return err
			}
			input.Bio = &bio
		}
		if files := form.File[avatarField]; len(files) > 0 {
			avatar, err := readAvatar(files[0])
			if err != nil {
				return err
			}
			input.Avatar = avatar
		}
	case len(c.Body()) > 0:
		return apperrors.NewValidationError("unsupported content type",
			map[string]any{"content_type": string(c.Request().Header.ContentType())})
	}

	profile, err := h.profiles.UpdateProfile(c.UserContext(), principal.UserID, input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(*profile)})
}

func readAvatar(fh *multipart.FileHeader) (*service.AvatarUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("open avatar: %w", err))
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("read avatar: %w", err))
	}
	return &service.AvatarUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}
