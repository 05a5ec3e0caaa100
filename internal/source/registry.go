package source

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yefei/zenorm-generate/internal/config"
)

// Factory opens a source for a configuration
type Factory func(cfg *config.Config) (Source, error)

// Registry manages available metadata backends
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// DefaultRegistry returns a registry with every built-in backend
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(factoryFor(mysqlDialect), "mysql")
	r.Register(factoryFor(postgresDialect), "postgres", "pg")
	r.Register(factoryFor(sqliteDialect), "sqlite")
	r.Register(factoryFor(sqlserverDialect), "sqlserver", "mssql")
	r.Register(OpenFile, "file")
	return r
}

// Register adds a backend factory under one or more names
func (r *Registry) Register(factory Factory, names ...string) {
	for _, name := range names {
		r.factories[strings.ToLower(name)] = factory
	}
}

// Get returns the factory for a backend name
func (r *Registry) Get(backend string) (Factory, error) {
	factory, exists := r.factories[strings.ToLower(backend)]
	if !exists {
		return nil, fmt.Errorf("unsupported backend: %s (available: %s)", backend, strings.Join(r.Backends(), ", "))
	}
	return factory, nil
}

// Open resolves cfg.Backend and opens it
func (r *Registry) Open(cfg *config.Config) (Source, error) {
	backend := cfg.Backend
	if backend == "" {
		backend = config.DefaultBackend
	}
	factory, err := r.Get(backend)
	if err != nil {
		return nil, err
	}
	return factory(cfg)
}

// Backends returns the registered backend names, sorted
func (r *Registry) Backends() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
