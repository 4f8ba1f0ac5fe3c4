package blob

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"
	"time"

	"docflow/pkg/platform/sentinel"
)

// Object is a stored file in the in-memory store.
type Object struct {
	Data        []byte
	ContentType string
}

// InMemory keeps objects in process memory. Signed URLs are opaque
// memory:// links carrying the expiry.
type InMemory struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]Object
	failOn  map[string]error
	now     func() time.Time
}

func NewInMemory(bucket string) *InMemory {
	return &InMemory{
		bucket:  bucket,
		objects: make(map[string]Object),
		failOn:  make(map[string]error),
		now:     time.Now,
	}
}

// FailOn makes the named operation ("put", "remove", "sign") return err.
// Pass a nil err to clear it.
func (s *InMemory) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

func (s *InMemory) Put(_ context.Context, path string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read object body: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn["put"]; err != nil {
		return err
	}
	if _, exists := s.objects[path]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.objects[path] = Object{Data: data, ContentType: contentType}
	return nil
}

func (s *InMemory) Remove(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failOn["remove"]; err != nil {
		return err
	}
	delete(s.objects, path)
	return nil
}

func (s *InMemory) SignedURL(_ context.Context, path string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failOn["sign"]; err != nil {
		return "", err
	}
	if _, ok := s.objects[path]; !ok {
		return "", sentinel.ErrNotFound
	}
	u := url.URL{Scheme: "memory", Host: s.bucket, Path: "/" + path}
	q := u.Query()
	q.Set("expires", fmt.Sprint(s.now().Add(ttl).Unix()))
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Get returns a stored object.
func (s *InMemory) Get(path string) (Object, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Paths lists every stored path.
func (s *InMemory) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.objects))
	for p := range s.objects {
		out = append(out, p)
	}
	return out
}
