// Package facility provides module loading facilities for the
// coordinator. This file contains an in-memory facility backed by
// registered initializer functions, used by hosts whose modules are
// ordinary Go setup code.
package facility

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Initializer performs one module's load work.
type Initializer func(ctx context.Context) error

// Registry is an in-memory facility. Locators map to initializer
// functions; a load runs the initializer once and remembers success, so
// loading a loaded locator is a no-op.
type Registry struct {
	logger *slog.Logger

	mu           sync.RWMutex
	initializers map[string]Initializer
	loaded       map[string]bool
}

// NewRegistry returns an empty registry logging through logger. A nil
// logger falls back to slog.Default().
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		logger:       logger,
		initializers: make(map[string]Initializer),
		loaded:       make(map[string]bool),
	}
}

// Register installs an initializer for locator. Registering the same
// locator twice is an error.
func (r *Registry) Register(locator string, init Initializer) error {
	if locator == "" {
		return fmt.Errorf("facility: locator is required")
	}
	if init == nil {
		return fmt.Errorf("facility: initializer is required for %s", locator)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.initializers[locator]; exists {
		return fmt.Errorf("facility: %s already registered", locator)
	}
	r.initializers[locator] = init
	return nil
}

// MustRegister panics if registration fails.
func (r *Registry) MustRegister(locator string, init Initializer) {
	if err := r.Register(locator, init); err != nil {
		panic(err)
	}
}

// Load runs the initializer registered for locator. A failed
// initializer leaves the locator unloaded, so a later Load retries it.
// Initializers run while the registry lock is held and must not call
// back into the Registry.
func (r *Registry) Load(ctx context.Context, locator string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded[locator] {
		return nil
	}
	init, ok := r.initializers[locator]
	if !ok {
		return fmt.Errorf("facility: unknown locator %s", locator)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := init(ctx); err != nil {
		return fmt.Errorf("facility: initialize %s: %w", locator, err)
	}
	r.loaded[locator] = true
	r.logger.Debug("initialized module", "locator", locator)
	return nil
}

// Loaded reports whether locator has been loaded.
func (r *Registry) Loaded(locator string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.loaded[locator]
}

// LoadedModules returns the loaded locators in sorted order.
func (r *Registry) LoadedModules() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	locators := make([]string, 0, len(r.loaded))
	for locator := range r.loaded {
		locators = append(locators, locator)
	}
	sort.Strings(locators)
	return locators
}
