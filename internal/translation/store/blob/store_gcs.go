package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"docflow/pkg/platform/sentinel"
)

// GCS stores objects in a Google Cloud Storage bucket.
type GCS struct {
	client         *storage.Client
	bucket         *storage.BucketHandle
	googleAccessID string
	privateKey     []byte
}

// GCSOption configures the GCS store.
type GCSOption func(*GCS)

// WithSigningKey sets an explicit service account for URL signing. Without
// it the client signs with the ambient credentials.
func WithSigningKey(googleAccessID string, privateKey []byte) GCSOption {
	return func(g *GCS) {
		g.googleAccessID = googleAccessID
		g.privateKey = privateKey
	}
}

// NewGCS binds the store to bucket. The client is owned by the caller.
func NewGCS(client *storage.Client, bucket string, opts ...GCSOption) *GCS {
	g := &GCS{client: client, bucket: client.Bucket(bucket)}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Put writes the object only if it does not exist yet.
func (g *GCS) Put(ctx context.Context, path string, r io.Reader, _ int64, contentType string) error {
	w := g.bucket.Object(path).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return classifyGCS(err, "write object "+path)
	}
	if err := w.Close(); err != nil {
		return classifyGCS(err, "finalize object "+path)
	}
	return nil
}

func (g *GCS) Remove(ctx context.Context, path string) error {
	err := g.bucket.Object(path).Delete(ctx)
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return classifyGCS(err, "delete object "+path)
	}
	return nil
}

func (g *GCS) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	opts := &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  http.MethodGet,
		Expires: time.Now().Add(ttl),
	}
	if g.googleAccessID != "" {
		opts.GoogleAccessID = g.googleAccessID
		opts.PrivateKey = g.privateKey
	}
	u, err := g.bucket.SignedURL(path, opts)
	if err != nil {
		return "", fmt.Errorf("sign url for %s: %w", path, err)
	}
	return u, nil
}

func classifyGCS(err error, op string) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusPreconditionFailed:
			return fmt.Errorf("%s: %w", op, sentinel.ErrAlreadyUsed)
		case http.StatusServiceUnavailable, http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %w", op, sentinel.ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
