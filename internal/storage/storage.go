// Package storage persists uploaded binary objects and returns the public
// URL they are served from.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spec-kit/freelance-marketplace/internal/config"
)

// PublicPrefix is the route under which stored objects are served.
const PublicPrefix = "/uploads"

// ErrInvalidKey is returned for keys that would escape the storage root.
var ErrInvalidKey = errors.New("invalid object key")

// ObjectStore accepts a byte buffer and returns a retrievable public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// LocalStore writes objects below a directory that the HTTP server exposes
// statically at PublicPrefix.
type LocalStore struct {
	root       string
	publicBase string
}

// NewLocalStore ensures the upload directory exists.
func NewLocalStore(cfg config.StorageConfig) (*LocalStore, error) {
	root := cfg.UploadDir
	if root == "" {
		root = "./uploads"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{
		root:       root,
		publicBase: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Root returns the directory objects are written to.
func (s *LocalStore) Root() string {
	return s.root
}

// Put writes data under key and returns its public URL.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	clean := filepath.ToSlash(filepath.Clean("/" + key))
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	clean = strings.TrimPrefix(clean, "/")

	dst := filepath.Join(s.root, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create object dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write object: %w", err)
	}

	return s.publicBase + PublicPrefix + "/" + clean, nil
}
