package upload

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/formkit/binder"
)

// LocalStore keeps uploads on the local filesystem.
// All operations are confined to baseDir.
type LocalStore struct {
	baseDir string // Absolute path
	baseURL string
	timeout time.Duration
}

// LocalOption configures a LocalStore.
type LocalOption func(*LocalStore)

// WithLocalTimeout bounds a single save. Zero relies on the caller's deadline.
func WithLocalTimeout(d time.Duration) LocalOption {
	return func(s *LocalStore) { s.timeout = d }
}

// NewLocalStore creates a store rooted at baseDir, creating it when missing.
// baseURL prefixes object URLs, e.g. "/uploads/".
func NewLocalStore(baseDir, baseURL string, opts ...LocalOption) (*LocalStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("%w: empty base directory", ErrInvalidConfig)
	}
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	s := &LocalStore{baseDir: abs, baseURL: baseURL}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save writes the file content under dir with a generated name.
func (s *LocalStore) Save(ctx context.Context, f *binder.FileUpload, dir string) (*Object, error) {
	if f == nil {
		return nil, ErrNilFile
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key, err := objectKey(dir, f.Filename)
	if err != nil {
		return nil, err
	}
	absPath, err := s.resolvePath(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToCreateDirectory, err)
	}

	dst, err := os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if _, err := dst.Write(f.Content); err != nil {
		_ = dst.Close()
		_ = os.Remove(absPath) // Clean up partial file
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(absPath)
		return nil, fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	return &Object{
		Key:         key,
		Filename:    SanitizeFilename(f.Filename),
		ContentType: f.ContentType(),
		Size:        int64(len(f.Content)),
		URL:         joinURL(s.baseURL, key),
	}, nil
}

// Delete removes a stored file.
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	absPath, err := s.resolvePath(key)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, key)
		}
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrInvalidPath, key)
	}
	if err := os.Remove(absPath); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToDeleteFile, err)
	}
	return nil
}

// Ping checks that the base directory is still a writable directory.
func (s *LocalStore) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(s.baseDir)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, s.baseDir)
	}
	probe, err := os.CreateTemp(s.baseDir, ".ping-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}
	name := probe.Name()
	_ = probe.Close()
	return os.Remove(name)
}

// Dir returns the absolute storage root.
func (s *LocalStore) Dir() string {
	return s.baseDir
}

// Path returns the absolute filesystem path of a key.
func (s *LocalStore) Path(key string) (string, error) {
	return s.resolvePath(key)
}

// resolvePath keeps every resolved path inside baseDir.
func (s *LocalStore) resolvePath(key string) (string, error) {
	absPath, err := filepath.Abs(filepath.Join(s.baseDir, filepath.Clean(key)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidPath, key)
	}
	return absPath, nil
}
