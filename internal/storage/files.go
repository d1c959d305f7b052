package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tadikamesra/tadika-mesra/internal/logger"
)

// FileStorage writes uploaded files to a directory on disk and hands back
// the URL they will be served under.
type FileStorage struct {
	dir       string
	urlPrefix string
}

// NewFileStorage creates the upload directory if needed.
func NewFileStorage(dir, urlPrefix string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &FileStorage{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/")}, nil
}

// Dir returns the directory uploads are written to.
func (s *FileStorage) Dir() string {
	return s.dir
}

// Save writes src to disk under a timestamped name derived from the
// original filename and returns the serving URL. The uuid fragment keeps
// two uploads landing in the same millisecond apart.
func (s *FileStorage) Save(ctx context.Context, originalName string, src io.Reader) (string, error) {
	name := fmt.Sprintf("%d-%s-%s",
		time.Now().UnixMilli(),
		uuid.NewString()[:8],
		sanitizeName(originalName),
	)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		logger.Log.Errorw("failed to create upload file", "name", name, "error", err)
		return "", err
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)

	logger.Log.Infow(
		"upload written",
		"name", name,
		"bytes", written,
		"error", err,
	)

	if err != nil {
		os.Remove(dst.Name())
		return "", err
	}

	return s.urlPrefix + "/" + name, nil
}

// sanitizeName strips any path components and whitespace from a
// client-supplied filename.
func sanitizeName(name string) string {
	name = path.Base(filepath.ToSlash(name))
	if name == "." || name == "/" || name == "" {
		name = "upload"
	}
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\t' {
			return '_'
		}
		return r
	}, name)
}
