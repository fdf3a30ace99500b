package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/kbukum/formkit/component"
	"github.com/kbukum/formkit/logger"
)

// healthProbePath is checked against backends that implement Checker.
const healthProbePath = ".health"

// Component resolves the default backend at startup and reports its health.
type Component struct {
	registry *Registry
	backend  Backend
	log      *logger.Logger
}

var _ component.Component = (*Component)(nil)
var _ Resolver = (*Component)(nil)
var _ component.Describable = (*Component)(nil)

// NewComponent creates a storage component for use with the component registry.
func NewComponent(registry *Registry, log *logger.Logger) *Component {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Component{registry: registry, log: log.WithComponent("storage")}
}

// Backend returns the default backend, or nil if not started.
func (c *Component) Backend() Backend { return c.backend }

// Config returns the shared storage config.
func (c *Component) Config() *Config { return c.registry.Config() }

// Resolve returns the started default backend for the zero Ref and for a
// Ref naming the default provider. Other refs are built by the registry.
func (c *Component) Resolve(ref Ref) (Backend, error) {
	if c.backend != nil {
		if ref.IsZero() {
			return c.backend, nil
		}
		if name, ok := ref.Name(); ok && name == c.registry.Config().Provider {
			return c.backend, nil
		}
	}
	return c.registry.Resolve(ref)
}

// Download streams path from the default backend. Backends that cannot
// download report ErrNotFound.
func (c *Component) Download(ctx context.Context, path string) (io.ReadCloser, error) {
	d, ok := c.backend.(Downloader)
	if !ok {
		return nil, fmt.Errorf("%w: provider %s does not serve downloads", ErrNotFound, c.registry.Config().Provider)
	}
	return d.Download(ctx, path)
}

// Name returns the component name.
func (c *Component) Name() string { return "storage" }

// Start validates the shared config and builds the default backend so that
// misconfiguration fails at boot rather than on the first upload.
func (c *Component) Start(_ context.Context) error {
	if err := c.registry.Config().Validate(); err != nil {
		return err
	}
	b, err := c.registry.Resolve(Ref{})
	if err != nil {
		return fmt.Errorf("storage start: %w", err)
	}
	c.backend = b
	c.log.Info("storage ready", logger.Fields(
		"provider", c.registry.Config().Provider,
		"backends", strings.Join(c.registry.Names(), ","),
	))
	return nil
}

// Stop releases the default backend.
func (c *Component) Stop(_ context.Context) error {
	c.backend = nil
	return nil
}

// Health probes the default backend.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.backend == nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: "storage not initialized",
		}
	}
	if chk, ok := c.backend.(Checker); ok {
		if _, err := chk.Exists(ctx, healthProbePath); err != nil {
			return component.Health{
				Name:    c.Name(),
				Status:  component.StatusUnhealthy,
				Message: fmt.Sprintf("health probe failed: %v", err),
			}
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

// Describe returns summary info for the startup log.
func (c *Component) Describe() component.Description {
	cfg := c.registry.Config()
	details := fmt.Sprintf("provider=%s", cfg.Provider)
	if d, ok := c.backend.(interface{ Describe() string }); ok {
		details += " " + d.Describe()
	}
	return component.Description{Name: "Storage", Type: "storage", Details: details}
}
