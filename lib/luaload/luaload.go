// Package luaload loads Lua modules with a shared interpreter state.
package luaload

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	lua "github.com/Shopify/go-lua"
)

// Facility runs Lua source files under a root directory. Modules share
// one Lua state, so a loaded module sees the globals of modules loaded
// before it.
type Facility struct {
	root string

	mu     sync.Mutex
	state  *lua.State
	loaded map[string]bool
}

// New returns a Facility rooted at root with the standard Lua libraries
// opened.
func New(root string) *Facility {
	state := lua.NewState()
	lua.OpenLibraries(state)
	return &Facility{
		root:   root,
		state:  state,
		loaded: make(map[string]bool),
	}
}

// Load runs the Lua file at locator, relative to the facility root.
// Loading a loaded locator is a no-op; a failed run leaves the locator
// unloaded.
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
	if err := lua.LoadFile(f.state, path, ""); err != nil {
		f.state.Pop(1)
		return fmt.Errorf("luaload: load %s: %w", path, err)
	}
	if err := f.state.ProtectedCall(0, 0, 0); err != nil {
		f.state.Pop(1)
		return fmt.Errorf("luaload: run %s: %w", path, err)
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
