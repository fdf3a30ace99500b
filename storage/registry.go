package storage

import (
	"errors"
	"sort"
	"sync"

	apperrors "github.com/kbukum/formkit/errors"
	"github.com/kbukum/formkit/logger"
)

// ErrUnknownBackend is wrapped by the error returned for unregistered names.
var ErrUnknownBackend = errors.New("storage: unknown backend")

// Factory builds a backend from the shared config and the provider-specific
// config registered for its name (nil when none was). The shared config is
// live: backends may read it on every call.
type Factory func(cfg *Config, providerCfg any, log *logger.Logger) (Backend, error)

var (
	defaultsMu sync.RWMutex
	defaults   = make(map[string]Factory)
)

// RegisterFactory adds f to the default factory set copied by NewRegistry.
// Backend packages call it from init.
func RegisterFactory(name string, f Factory) {
	defaultsMu.Lock()
	defer defaultsMu.Unlock()
	defaults[name] = f
}

// Registry maps backend names to factories.
type Registry struct {
	mu           sync.RWMutex
	factories    map[string]Factory
	providerCfgs map[string]any
	cfg          *Config
	log          *logger.Logger
}

// NewRegistry creates a registry seeded with the default factories. A nil
// cfg uses defaults; a nil log uses the global logger.
func NewRegistry(cfg *Config, log *logger.Logger) *Registry {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.GetGlobalLogger()
	}

	defaultsMu.RLock()
	factories := make(map[string]Factory, len(defaults))
	for name, f := range defaults {
		factories[name] = f
	}
	defaultsMu.RUnlock()

	return &Registry{
		factories:    factories,
		providerCfgs: make(map[string]any),
		cfg:          cfg,
		log:          log.WithComponent("storage"),
	}
}

// Register associates name with f, replacing any previous factory.
func (r *Registry) Register(name string, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Configure sets the provider-specific config passed to name's factory.
func (r *Registry) Configure(name string, providerCfg any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providerCfgs[name] = providerCfg
}

// Config returns the shared config handed to factories.
func (r *Registry) Config() *Config { return r.cfg }

// New builds a fresh backend registered under name.
func (r *Registry) New(name string) (Backend, error) {
	r.mu.RLock()
	f, ok := r.factories[name]
	providerCfg := r.providerCfgs[name]
	r.mu.RUnlock()

	if !ok {
		return nil, apperrors.UnknownBackend(name).WithCause(ErrUnknownBackend)
	}

	b, err := f(r.cfg, providerCfg, r.log)
	if err != nil {
		return nil, err
	}
	r.log.Debug("backend created", logger.Fields(logger.FieldBackend, name))
	return b, nil
}

// Resolve turns ref into a backend. Named refs are built with New, instance
// refs are returned unchanged, and the zero Ref builds the configured
// default provider.
func (r *Registry) Resolve(ref Ref) (Backend, error) {
	if b, ok := ref.Backend(); ok {
		return b, nil
	}
	if name, ok := ref.Name(); ok {
		return r.New(name)
	}
	return r.New(r.cfg.Provider)
}

// Names returns the registered backend names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
