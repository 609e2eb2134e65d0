package upload

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/formkit/binder"
)

// Object describes a stored upload.
type Object struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	URL         string `json:"url"`
}

// Store persists uploaded files.
type Store interface {
	// Save stores f under dir with a generated key and returns its metadata.
	Save(ctx context.Context, f *binder.FileUpload, dir string) (*Object, error)
	// Delete removes a stored object by key.
	Delete(ctx context.Context, key string) error
	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error
}

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

type Config struct {
	Driver  string        `env:"UPLOAD_DRIVER" envDefault:"local"`       // Driver selects the backend: local or s3.
	Dir     string        `env:"UPLOAD_DIR" envDefault:"./uploads"`      // Dir is the local storage root.
	BaseURL string        `env:"UPLOAD_BASE_URL" envDefault:"/uploads/"` // BaseURL prefixes object URLs.
	Timeout time.Duration `env:"UPLOAD_TIMEOUT" envDefault:"30s"`        // Timeout bounds a single save.

	S3Bucket         string `env:"UPLOAD_S3_BUCKET"`
	S3Region         string `env:"UPLOAD_S3_REGION"`
	S3AccessKeyID    string `env:"UPLOAD_S3_ACCESS_KEY_ID"`
	S3SecretKey      string `env:"UPLOAD_S3_SECRET_KEY"`
	S3Endpoint       string `env:"UPLOAD_S3_ENDPOINT"`                            // Optional: for S3-compatible services
	S3ForcePathStyle bool   `env:"UPLOAD_S3_FORCE_PATH_STYLE" envDefault:"false"` // For S3-compatible services like MinIO
}

// New creates the store selected by cfg.Driver.
func New(ctx context.Context, cfg Config, opts ...S3Option) (Store, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", DriverLocal:
		return NewLocalStore(cfg.Dir, cfg.BaseURL, WithLocalTimeout(cfg.Timeout))
	case DriverS3:
		return NewS3Store(ctx, S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			AccessKeyID:    cfg.S3AccessKeyID,
			SecretKey:      cfg.S3SecretKey,
			Endpoint:       cfg.S3Endpoint,
			BaseURL:        cfg.BaseURL,
			ForcePathStyle: cfg.S3ForcePathStyle,
		}, append([]S3Option{WithS3Timeout(cfg.Timeout)}, opts...)...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
}

// SanitizeFilename removes any path components and dangerous characters from a filename.
// Returns "unnamed" for empty or special directory references.
//
//	upload.SanitizeFilename("../../../etc/passwd") // "passwd"
//	upload.SanitizeFilename("C:\\Windows\\file.txt") // "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = path.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}
	return filename
}

// objectKey builds "<dir>/<uuid><ext>" with a cleaned, relative dir.
func objectKey(dir, filename string) (string, error) {
	dir = filepath.ToSlash(dir)
	for part := range strings.SplitSeq(dir, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %s", ErrInvalidPath, dir)
		}
	}
	dir = strings.Trim(path.Clean("/"+dir), "/")
	name := uuid.NewString() + strings.ToLower(path.Ext(SanitizeFilename(filename)))
	if dir == "" {
		return name, nil
	}
	return dir + "/" + name, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + key
}
