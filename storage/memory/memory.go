// Package memory provides an in-process storage backend. It is registered
// as "memory" and is meant for tests and local development.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderMemory, func(_ *storage.Config, providerCfg any, _ *logger.Logger) (storage.Backend, error) {
		if providerCfg != nil {
			s, ok := providerCfg.(*Storage)
			if !ok {
				return nil, fmt.Errorf("memory: expected *memory.Storage, got %T", providerCfg)
			}
			return s, nil
		}
		return New(""), nil
	})
}

// Storage keeps objects in a map guarded by a mutex.
type Storage struct {
	mu      sync.RWMutex
	files   map[string][]byte
	baseURL string
	saveErr error
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty store. URLs are baseURL joined with the escaped path;
// an empty baseURL yields "memory://<path>".
func New(baseURL string) *Storage {
	prefix := "memory://"
	if baseURL != "" {
		prefix = strings.TrimRight(baseURL, "/") + "/"
	}
	return &Storage{files: make(map[string][]byte), baseURL: prefix}
}

// FailSaves makes every following Save return err. Pass nil to reset.
func (s *Storage) FailSaves(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveErr = err
}

func (s *Storage) Save(_ context.Context, path string, r io.Reader) error {
	s.mu.RLock()
	failErr := s.saveErr
	s.mu.RUnlock()
	if failErr != nil {
		return failErr
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("storage: read upload: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *Storage) URLFor(_ context.Context, path string, params map[string]string) (string, error) {
	u := s.baseURL + escapePath(path)
	if len(params) > 0 {
		q := url.Values{}
		for k, v := range params {
			q.Set(k, v)
		}
		u += "?" + q.Encode()
	}
	return u, nil
}

func (s *Storage) Download(_ context.Context, path string) (io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), data...))), nil
}

func (s *Storage) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *Storage) Exists(_ context.Context, path string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[path]
	return ok, nil
}

// Paths returns the stored paths in sorted order.
func (s *Storage) Paths() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	paths := make([]string, 0, len(s.files))
	for p := range s.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Bytes returns a copy of the object at path.
func (s *Storage) Bytes(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.files[path]
	return append([]byte(nil), data...), ok
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, part := range parts {
		parts[i] = url.PathEscape(part)
	}
	return strings.Join(parts, "/")
}
