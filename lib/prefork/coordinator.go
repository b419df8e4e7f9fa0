// Package prefork provides the coordinator operations. This file
// contains construction, module registration, the forking transition,
// and callback subscription.
package prefork

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/gitpan/prefork/lib/ident"
)

// New creates a Coordinator from opts. It panics when opts.Facility is
// nil. The forking flag starts set when opts.Forking is true or the
// ForkingEnv environment variable is non-empty.
func New(opts Options) *Coordinator {
	if opts.Facility == nil {
		panic("prefork: Options.Facility is required")
	}

	resolver := opts.Resolver
	if resolver == nil {
		resolver = ident.PathResolver{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	c := &Coordinator{
		facility: opts.Facility,
		resolver: resolver,
		logger:   logger,
		pending:  make(map[string]string),
	}

	if opts.Forking {
		c.forking = true
	} else if os.Getenv(ForkingEnv) != "" {
		c.forking = true
		c.logger.Debug("forking phase signaled by environment", "var", ForkingEnv)
	}

	return c
}

// Register queues module for loading before the next fork. A module
// that is already loaded or already queued is left alone. Once the
// forking flag is set the module loads immediately instead of queueing.
func (c *Coordinator) Register(ctx context.Context, module string) error {
	if err := ident.Validate(module); err != nil {
		return wrapError(CodeValidation, module, "invalid module identifier", err)
	}

	locator, err := c.resolver.Resolve(module)
	if err != nil {
		return wrapError(CodeValidation, module, "resolve locator", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.facility.Loaded(locator) {
		return nil
	}
	if _, queued := c.pending[module]; queued {
		return nil
	}

	if c.forking {
		return c.load(ctx, module, locator)
	}

	c.pending[module] = locator
	c.logger.Debug("queued module", "module", module, "locator", locator)
	return nil
}

// Enable sets the forking flag, loads every queued module in
// lexicographic identifier order, and fires the callbacks that have not
// fired yet. The queue empties even when a load fails. The transition
// is permanent; calling Enable again only drains whatever queued since
// and fires whatever has not fired.
func (c *Coordinator) Enable(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.forking {
		c.forking = true
		c.logger.Info("entering forking phase", "pending", len(c.pending))
	}

	modules := make([]string, 0, len(c.pending))
	for module := range c.pending {
		modules = append(modules, module)
	}
	sort.Strings(modules)

	var loadErr error
	for _, module := range modules {
		locator := c.pending[module]
		if c.facility.Loaded(locator) {
			continue
		}
		if loadErr = c.load(ctx, module, locator); loadErr != nil {
			break
		}
	}

	clear(c.pending)

	if loadErr != nil {
		return loadErr
	}

	return c.fire()
}

// Subscribe registers hook to fire once the forking phase begins. When
// the flag is already set the hook fires synchronously before Subscribe
// returns. Nil hooks are rejected, and subscribing the same function
// reference twice is rejected; separate closures built from one literal
// count as separate callbacks.
func (c *Coordinator) Subscribe(hook Hook) error {
	if hook == nil {
		return newError(CodeValidation, "", "nil callback")
	}

	key := hookKey(hook)

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, sub := range c.subscriptions {
		if sub.key == key {
			return newError(CodeDuplicate, "", fmt.Sprintf("callback already subscribed as %s", sub.id))
		}
	}

	sub := &subscription{
		id:   newSubscriptionID(),
		key:  key,
		hook: hook,
	}
	c.subscriptions = append(c.subscriptions, sub)
	c.logger.Debug("subscribed callback", "callback", sub.id)

	if !c.forking {
		return nil
	}

	sub.fired = true
	c.logger.Debug("firing callback", "callback", sub.id)
	if err := hook(); err != nil {
		return wrapError(CodeCallback, "", fmt.Sprintf("callback %s", sub.id), err)
	}
	return nil
}

// Forking reports whether the coordinator is in the forking phase.
func (c *Coordinator) Forking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.forking
}

// Pending returns the queued module identifiers in sorted order.
func (c *Coordinator) Pending() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	modules := make([]string, 0, len(c.pending))
	for module := range c.pending {
		modules = append(modules, module)
	}
	sort.Strings(modules)
	return modules
}

// load runs one facility load. Callers hold c.mu.
func (c *Coordinator) load(ctx context.Context, module, locator string) error {
	if err := c.facility.Load(ctx, locator); err != nil {
		return wrapError(CodeLoad, module, "load module", err)
	}
	c.logger.Debug("loaded module", "module", module, "locator", locator)
	return nil
}

// fire invokes every subscription that has not fired, in registration
// order. Each is marked fired before it runs, so a failing hook never
// runs twice. Callers hold c.mu.
func (c *Coordinator) fire() error {
	for _, sub := range c.subscriptions {
		if sub.fired {
			continue
		}
		sub.fired = true
		c.logger.Debug("firing callback", "callback", sub.id)
		if err := sub.hook(); err != nil {
			return wrapError(CodeCallback, "", fmt.Sprintf("callback %s", sub.id), err)
		}
	}
	return nil
}
