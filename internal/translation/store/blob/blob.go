// Package blob stores original and translated PDF files and issues
// time-limited download links for them.
package blob

import (
	"context"
	"io"
	"time"
)

// Store is the object store contract used by the translation service.
// Put must not overwrite an existing object; Remove is idempotent.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, path string) error
	SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error)
}
