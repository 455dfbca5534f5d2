// Package storage keeps the bytes of uploaded documents between the upload
// and generate steps.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"studysync/internal/config"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("stored file not found")

// FileStore saves, opens and deletes uploaded documents by key.
type FileStore interface {
	Save(ctx context.Context, workspaceID uuid.UUID, filename string, content io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// NewFromConfig returns the R2 store when the bucket is configured and a
// local directory store otherwise.
func NewFromConfig(ctx context.Context, cfg *config.Config) (FileStore, error) {
	if cfg.R2.Enabled() {
		return NewR2Store(ctx, cfg.R2)
	}
	return NewLocalStore(cfg.UploadDir)
}

// objectKey builds "uploads/<workspaceID>/<uploadID>/<filename>".
func objectKey(workspaceID uuid.UUID, filename string) string {
	return fmt.Sprintf("uploads/%s/%s/%s", workspaceID, uuid.New(), sanitizeFilename(filename))
}

// sanitizeFilename keeps only the base name and drops characters that are
// awkward in object keys and paths.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == '/', r == ':', r == '*', r == '?', r == '"', r == '<', r == '>', r == '|':
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." {
		return "upload"
	}
	return name
}

// validKey rejects keys that were not produced by objectKey.
func validKey(key string) bool {
	if !strings.HasPrefix(key, "uploads/") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return true
}
