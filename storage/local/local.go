// Package local stores uploads on the local filesystem and builds their URLs
// through the host application's static_upload route.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/kbukum/formkit/logger"
	"github.com/kbukum/formkit/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderLocal, func(cfg *storage.Config, providerCfg any, _ *logger.Logger) (storage.Backend, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("local: expected *local.Config, got %T", providerCfg)
			}
			c = pc
		}
		return New(c.Root, cfg, nil), nil
	})
}

// Storage implements storage.Storage using the local filesystem.
type Storage struct {
	root string
	cfg  *storage.Config
	urls storage.URLBuilder
}

var _ storage.Storage = (*Storage)(nil)

// New creates a local backend. An empty root falls back to cfg.BasePath,
// read on every access. A nil urls falls back to cfg.URLs.
func New(root string, cfg *storage.Config, urls storage.URLBuilder) *Storage {
	if cfg == nil {
		cfg = &storage.Config{}
	}
	return &Storage{root: root, cfg: cfg, urls: urls}
}

// Root returns the directory files are stored under.
func (s *Storage) Root() string {
	if s.root != "" {
		return s.root
	}
	if s.cfg.BasePath != "" {
		return s.cfg.BasePath
	}
	return storage.DefaultBasePath
}

// Describe is used in the startup summary.
func (s *Storage) Describe() string { return "root=" + s.Root() }

// fullPath maps a slash-separated relative path to a file under Root.
// Leading slashes and ".." elements cannot escape the root.
func (s *Storage) fullPath(p string) (string, error) {
	clean := path.Clean("/" + p)
	if clean == "/" {
		return "", fmt.Errorf("storage: empty path")
	}
	return filepath.Join(s.Root(), filepath.FromSlash(clean)), nil
}

// Save writes r to root/path, creating missing directories.
func (s *Storage) Save(_ context.Context, p string, r io.Reader) error {
	full, err := s.fullPath(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return fmt.Errorf("storage: create directory: %w", err)
	}

	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("storage: create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(full)
		return fmt.Errorf("storage: write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("storage: close file: %w", err)
	}
	return nil
}

// URLFor builds the static_upload route with filename set to path. Other
// params are passed to the builder as given.
func (s *Storage) URLFor(_ context.Context, p string, params map[string]string) (string, error) {
	urls := s.urls
	if urls == nil {
		urls = s.cfg.URLs
	}
	if urls == nil {
		return "", fmt.Errorf("storage: local backend has no url builder")
	}
	merged := make(map[string]string, len(params)+1)
	for k, v := range params {
		merged[k] = v
	}
	merged["filename"] = p
	return urls.Build(storage.StaticUploadEndpoint, merged)
}

// Download opens the file at path.
func (s *Storage) Download(_ context.Context, p string) (io.ReadCloser, error) {
	full, err := s.fullPath(p)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, p)
		}
		return nil, fmt.Errorf("storage: open file: %w", err)
	}
	info, err := f.Stat()
	if err == nil && info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", storage.ErrNotFound, p)
	}
	return f, nil
}

// Delete removes the file at path. Missing files are ignored.
func (s *Storage) Delete(_ context.Context, p string) error {
	full, err := s.fullPath(p)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: delete file: %w", err)
	}
	return nil
}

// Exists reports whether a regular file exists at path.
func (s *Storage) Exists(_ context.Context, p string) (bool, error) {
	full, err := s.fullPath(p)
	if err != nil {
		return false, err
	}
	info, err := os.Stat(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: stat file: %w", err)
	}
	return !info.IsDir(), nil
}
