// Package prefork provides core types and interfaces for the deferred
// loading coordinator. This file contains the fundamental types, the
// collaborator interfaces, and the main Coordinator struct definition.
package prefork

import (
	"context"
	"log/slog"
	"sync"
)

// Hook is a zero-argument callback fired when the coordinator enters
// the forking phase. A non-nil error aborts the remaining callbacks.
type Hook func() error

// Facility performs module loads on behalf of the coordinator and
// tracks what it has loaded. Loading an already loaded locator must be
// a no-op.
type Facility interface {
	Load(ctx context.Context, locator string) error
	Loaded(locator string) bool
}

// Resolver derives a load locator from a module identifier.
type Resolver interface {
	Resolve(module string) (string, error)
}

// ForkingEnv is the environment variable inspected once at
// construction. A non-empty value starts the coordinator in the forking
// phase. The name is kept for compatibility with mod_perl hosts.
const ForkingEnv = "MOD_PERL"

// Options configures a Coordinator.
type Options struct {
	// Facility performs the actual module loads. Required.
	Facility Facility

	// Resolver maps identifiers to locators. Defaults to
	// ident.PathResolver{}.
	Resolver Resolver

	// Logger receives coordinator events. Defaults to slog.Default().
	Logger *slog.Logger

	// Forking starts the coordinator in the forking phase regardless of
	// the environment.
	Forking bool
}

// subscription records one registered callback.
type subscription struct {
	id    string  // time-ordered identifier for logs and error reports
	key   uintptr // callback reference identity, used for duplicate detection
	hook  Hook
	fired bool
}

// Coordinator tracks modules to load before the process forks and the
// callbacks to fire when the forking phase begins.
//
// A single mutex covers every operation, so operations are atomic with
// respect to each other. Hooks and facility loads run while it is held;
// they must not call back into the Coordinator.
type Coordinator struct {
	facility Facility
	resolver Resolver
	logger   *slog.Logger

	mu            sync.Mutex
	forking       bool
	pending       map[string]string // module identifier -> locator
	subscriptions []*subscription
}
