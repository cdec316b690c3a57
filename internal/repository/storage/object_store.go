package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore abstracts the object storage used for generated reports and
// bank logos
type ObjectStore interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}
