// Package execload provides a module facility backed by external warmup
// programs. Each locator names an executable under the facility root; loading
// a module runs that program once to completion.
package execload

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sync"
)

// Facility runs one warmup program per module locator. A locator counts as
// loaded only after its program exits successfully, so a failed run can be
// retried. Programs inherit the parent environment; stdout and stderr are
// merged and attached to the returned error on failure.
type Facility struct {
	root string

	mu     sync.Mutex
	loaded map[string]bool
}

// New creates a Facility that resolves locators under root.
func New(root string) *Facility {
	return &Facility{
		root:   root,
		loaded: make(map[string]bool),
	}
}

// Load runs the program for the given locator. Loading the same locator
// again is a no-op. The program is killed if ctx is cancelled mid-run.
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

	var output bytes.Buffer
	cmd := exec.CommandContext(ctx, path)
	cmd.Stdout = &output
	cmd.Stderr = &output

	if err := cmd.Run(); err != nil {
		if output.Len() > 0 {
			return fmt.Errorf("execload: run %s: %w: %s", path, err, bytes.TrimSpace(output.Bytes()))
		}
		return fmt.Errorf("execload: run %s: %w", path, err)
	}

	f.loaded[locator] = true
	return nil
}

// Loaded reports whether the program for locator has already run successfully.
func (f *Facility) Loaded(locator string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.loaded[locator]
}
