package render

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-uicatalog/pkg/model"
)

// SurfaceConfig is handed to surface factories.
type SurfaceConfig struct {
	Catalog *model.Catalog
	Input   io.Reader
	Output  io.Writer
	Logger  *slog.Logger
}

// SurfaceFactory builds a surface for one session.
type SurfaceFactory func(cfg SurfaceConfig) (Surface, error)

// Registry stores surface factories by name so hosts can pick one from
// configuration (for example a CLI --format flag).
type Registry struct {
	mu        sync.RWMutex
	factories map[string]SurfaceFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]SurfaceFactory),
	}
}

// Register adds a factory. Names are case-insensitive; duplicates fail.
func (r *Registry) Register(name string, factory SurfaceFactory) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("render: surface name is required")
	}
	if factory == nil {
		return fmt.Errorf("render: surface %q: factory is required", key)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[key]; exists {
		return fmt.Errorf("render: surface %q already registered", key)
	}
	r.factories[key] = factory
	return nil
}

// MustRegister panics on registration failure. Useful for init-time wiring.
func (r *Registry) MustRegister(name string, factory SurfaceFactory) {
	if err := r.Register(name, factory); err != nil {
		panic(err)
	}
}

// Get retrieves a factory by name.
func (r *Registry) Get(name string) (SurfaceFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("render: surface %q not found (available: %s)", name, strings.Join(r.namesLocked(), ", "))
	}
	return factory, nil
}

// New builds a surface from the named factory.
func (r *Registry) New(name string, cfg SurfaceConfig) (Surface, error) {
	factory, err := r.Get(name)
	if err != nil {
		return nil, err
	}
	surface, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("render: build surface %q: %w", name, err)
	}
	return surface, nil
}

// List returns the sorted registered names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Has reports whether a factory is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
