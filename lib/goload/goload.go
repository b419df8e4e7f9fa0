// Package goload loads Go source modules by interpreting them in
// process.
package goload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
)

// Facility interprets Go source files under a root directory. Modules
// share one interpreter, so a loaded module sees the declarations of
// modules loaded before it, the way preloaded code shares a process
// image.
type Facility struct {
	root string

	mu     sync.Mutex
	interp *interp.Interpreter
	loaded map[string]bool
}

// New returns a Facility rooted at root with the standard library
// symbols available to interpreted modules.
func New(root string) *Facility {
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	return &Facility{
		root:   root,
		interp: i,
		loaded: make(map[string]bool),
	}
}

// Load interprets the Go source file at locator, relative to the
// facility root. Loading a loaded locator is a no-op; a failed
// interpretation leaves the locator unloaded.
func (f *Facility) Load(ctx context.Context, locator string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.loaded[locator] {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := filepath.Join(f.root, locator)
	if _, err := f.interp.EvalPath(path); err != nil {
		return fmt.Errorf("goload: interpret %s: %w", path, err)
	}
	f.loaded[locator] = true
	return nil
}

// Loaded reports whether locator has been loaded.
func (f *Facility) Loaded(locator string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded[locator]
}
