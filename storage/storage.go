package storage

import (
	"context"
	"errors"
	"io"
)

// StaticUploadEndpoint is the route name local URLs are built against.
const StaticUploadEndpoint = "static_upload"

// ErrNotFound is returned by Download when the object does not exist.
var ErrNotFound = errors.New("storage: object not found")

// Backend is the capability every storage backend provides.
type Backend interface {
	// Save writes the contents of r to path, creating intermediate
	// directories or prefixes as needed. An existing object is replaced.
	Save(ctx context.Context, path string, r io.Reader) error

	// URLFor returns a URL for the object at path. params are
	// backend-specific options passed through unchanged.
	URLFor(ctx context.Context, path string, params map[string]string) (string, error)
}

// Downloader is implemented by backends that can stream stored objects.
// The caller closes the returned reader.
type Downloader interface {
	Download(ctx context.Context, path string) (io.ReadCloser, error)
}

// Deleter is implemented by backends that can remove stored objects.
// Deleting a missing object is not an error.
type Deleter interface {
	Delete(ctx context.Context, path string) error
}

// Checker is implemented by backends that can test for an object.
type Checker interface {
	Exists(ctx context.Context, path string) (bool, error)
}

// Storage is a Backend with the full set of optional capabilities.
type Storage interface {
	Backend
	Downloader
	Deleter
	Checker
}

// Resolver turns a Ref into a backend. Registry builds fresh backends;
// Component serves its started default backend.
type Resolver interface {
	Resolve(ref Ref) (Backend, error)
	Config() *Config
}

// URLBuilder builds URLs for named endpoints of the host application.
type URLBuilder interface {
	Build(endpoint string, params map[string]string) (string, error)
}

// URLBuilderFunc adapts a function to URLBuilder.
type URLBuilderFunc func(endpoint string, params map[string]string) (string, error)

// Build calls f.
func (f URLBuilderFunc) Build(endpoint string, params map[string]string) (string, error) {
	return f(endpoint, params)
}
