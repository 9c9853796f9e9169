package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/freelance-marketplace/internal/config"
	"github.com/spec-kit/freelance-marketplace/internal/domain"
	"github.com/spec-kit/freelance-marketplace/internal/repository"
	"github.com/spec-kit/freelance-marketplace/internal/storage"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

var avatarContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ProfileService manages the caller's own profile.
type ProfileService struct {
	users         repository.UserRepository
	store         storage.ObjectStore
	maxAvatarSize int64
}

// ProfileDependencies bundles collaborators for profile service.
type ProfileDependencies struct {
	UserRepo repository.UserRepository
	Store    storage.ObjectStore
}

// AvatarUpload is an uploaded image file.
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ProfileUpdateInput carries the optional profile fields. Nil fields are left untouched.
type ProfileUpdateInput struct {
	Bio    *string
	Avatar *AvatarUpload
}

// NewProfileService constructs the service.
func NewProfileService(cfg config.StorageConfig, deps ProfileDependencies) *ProfileService {
	maxSize := cfg.MaxAvatarSize
	if maxSize <= 0 {
		maxSize = 2 << 20
	}
	return &ProfileService{
		users:         deps.UserRepo,
		store:         deps.Store,
		maxAvatarSize: maxSize,
	}
}

// GetProfile returns the public profile of userID.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.PublicProfile, error) {
	if !validID(userID) {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, mapLookupError(err, "user", userID)
	}
	profile := user.Public()
	return &profile, nil
}

// UpdateProfile stores the avatar, if any, and applies the supplied fields.
// An input with neither field set succeeds without writing anything.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, input ProfileUpdateInput) (*domain.PublicProfile, error) {
	if input.Bio == nil && input.Avatar == nil {
		return s.GetProfile(ctx, userID)
	}
	if !validID(userID) {
		return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
	}

	var avatarURL *string
	if input.Avatar != nil {
		url, err := s.storeAvatar(ctx, userID, input.Avatar)
		if err != nil {
			return nil, err
		}
		avatarURL = &url
	}

	var bio *string
	if input.Bio != nil {
		trimmed := strings.TrimSpace(*input.Bio)
		bio = &trimmed
	}

	user, err := s.users.UpdateProfile(ctx, userID, bio, avatarURL)
	if err != nil {
		return nil, mapLookupError(err, "user", userID)
	}
	profile := user.Public()
	return &profile, nil
}

func (s *ProfileService) storeAvatar(ctx context.Context, userID string, avatar *AvatarUpload) (string, error) {
	ext := strings.ToLower(filepath.Ext(avatar.Filename))
	contentType, ok := avatarContentTypes[ext]
	if !ok {
		return "", apperrors.NewValidationError("avatar must be a jpg, jpeg, png or webp image",
			map[string]any{"avatar": avatar.Filename})
	}
	if len(avatar.Data) == 0 {
		return "", apperrors.NewValidationError("avatar is empty", nil)
	}
	if int64(len(avatar.Data)) > s.maxAvatarSize {
		return "", apperrors.NewValidationError("avatar too large",
			map[string]any{"max_bytes": s.maxAvatarSize})
	}

	key := fmt.Sprintf("avatars/%s/%s%s", userID, uuid.NewString(), ext)
	url, err := s.store.Put(ctx, key, avatar.Data, contentType)
	if err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("store avatar: %w", err))
	}
	return url, nil
}
