package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/freelance-marketplace/internal/config"
)

func TestLocalStorePut(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(config.StorageConfig{UploadDir: dir, PublicBaseURL: "https://cdn.example.com/"})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "avatars/u-1/a.png", []byte("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/avatars/u-1/a.png", url)

	data, err := os.ReadFile(filepath.Join(dir, "avatars", "u-1", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestLocalStoreRelativeURLWithoutBase(t *testing.T) {
	store, err := NewLocalStore(config.StorageConfig{UploadDir: t.TempDir()})
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "a.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/a.png", url)
}

func TestLocalStoreRejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(config.StorageConfig{UploadDir: t.TempDir()})
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../escape.png", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)

	_, err = store.Put(context.Background(), "", []byte("x"), "image/png")
	assert.ErrorIs(t, err, ErrInvalidKey)
}
