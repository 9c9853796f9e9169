package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/freelance-marketplace/internal/domain"
	apperrors "github.com/spec-kit/freelance-marketplace/pkg/util/errorutil"
)

type fakeStore struct {
	keys         []string
	contentTypes []string
	err          error
}

func (s *fakeStore) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	s.contentTypes = append(s.contentTypes, contentType)
	return "http://cdn.test/uploads/" + key, nil
}

func newProfileService(f *fixture, store *fakeStore) *ProfileService {
	return NewProfileService(testConfig().Storage, ProfileDependencies{UserRepo: f.store.Users(), Store: store})
}

func TestUpdateProfileNoopDoesNotTouchStorage(t *testing.T) {
	f := newFixture(t)
	store := &fakeStore{}
	svc := newProfileService(f, store)
	user := f.register(t, "Fay", "fay@example.com", domain.RoleFreelancer)

	profile, err := svc.UpdateProfile(context.Background(), user.UserID, ProfileUpdateInput{})
	require.NoError(t, err)
	assert.Equal(t, "Fay", profile.Name)
	assert.Nil(t, profile.Bio)
	assert.Nil(t, profile.AvatarURL)
	assert.Empty(t, store.keys)
}

func TestUpdateProfileBioAndAvatar(t *testing.T) {
	f := newFixture(t)
	store := &fakeStore{}
	svc := newProfileService(f, store)
	user := f.register(t, "Fay", "fay@example.com", domain.RoleFreelancer)
	ctx := context.Background()

	bio := "  Go developer "
	profile, err := svc.UpdateProfile(ctx, user.UserID, ProfileUpdateInput{Bio: &bio})
	require.NoError(t, err)
	require.NotNil(t, profile.Bio)
	assert.Equal(t, "Go developer", *profile.Bio)
	assert.Empty(t, store.keys)

	profile, err = svc.UpdateProfile(ctx, user.UserID, ProfileUpdateInput{
		Avatar: &AvatarUpload{Filename: "me.PNG", Data: []byte("png-bytes")},
	})
	require.NoError(t, err)
	require.Len(t, store.keys, 1)
	assert.Equal(t, "image/png", store.contentTypes[0])
	assert.Regexp(t, `^avatars/`+user.UserID+`/[0-9a-f-]{36}\.png$`, store.keys[0])
	require.NotNil(t, profile.AvatarURL)
	assert.Equal(t, "http://cdn.test/uploads/"+store.keys[0], *profile.AvatarURL)
	require.NotNil(t, profile.Bio, "bio is preserved")
	assert.Equal(t, "Go developer", *profile.Bio)

	fetched, err := svc.GetProfile(ctx, user.UserID)
	require.NoError(t, err)
	assert.Equal(t, profile.AvatarURL, fetched.AvatarURL)
}

func TestUpdateProfileAvatarValidation(t *testing.T) {
	f := newFixture(t)
	store := &fakeStore{}
	svc := newProfileService(f, store)
	user := f.register(t, "Fay", "fay@example.com", domain.RoleFreelancer)
	ctx := context.Background()

	_, err := svc.UpdateProfile(ctx, user.UserID, ProfileUpdateInput{
		Avatar: &AvatarUpload{Filename: "script.exe", Data: []byte("x")},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))

	_, err = svc.UpdateProfile(ctx, user.UserID, ProfileUpdateInput{
		Avatar: &AvatarUpload{Filename: "big.jpg", Data: make([]byte, 2<<20+1)},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidation))
	assert.Empty(t, store.keys)
}

func TestUpdateProfileStorageFailure(t *testing.T) {
	f := newFixture(t)
	svc := newProfileService(f, &fakeStore{err: errors.New("disk full")})
	user := f.register(t, "Fay", "fay@example.com", domain.RoleFreelancer)

	_, err := svc.UpdateProfile(context.Background(), user.UserID, ProfileUpdateInput{
		Avatar: &AvatarUpload{Filename: "me.webp", Data: []byte("x")},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInternal))
}

func TestGetProfileUnknownUser(t *testing.T) {
	f := newFixture(t)
	svc := newProfileService(f, &fakeStore{})

	_, err := svc.GetProfile(context.Background(), uuid.NewString())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeNotFound))
}
