// Package prefork provides the pragma-style entry point. This file
// contains the directive parser used by hosts that accept import-time
// style arguments, keeping string sniffing out of the coordinator.
package prefork

import (
	"context"
	"fmt"
)

// EnableToken is the sentinel argument that requests the forking
// transition instead of a module registration.
const EnableToken = ":enable"

// DirectiveKind discriminates parsed directives.
type DirectiveKind int

const (
	// KindNoop does nothing. Produced by an empty argument list.
	KindNoop DirectiveKind = iota
	// KindRegister queues one module for loading.
	KindRegister
	// KindEnable requests the forking transition.
	KindEnable
)

// Directive is one parsed pragma-style request.
type Directive struct {
	Kind   DirectiveKind
	Module string // set for KindRegister
}

// ParseDirective interprets pragma-style arguments. No arguments is a
// no-op, the EnableToken sentinel requests the forking transition, and
// any other single argument names a module to register. More than one
// argument is rejected.
func ParseDirective(args ...string) (Directive, error) {
	switch len(args) {
	case 0:
		return Directive{Kind: KindNoop}, nil
	case 1:
		if args[0] == EnableToken {
			return Directive{Kind: KindEnable}, nil
		}
		return Directive{Kind: KindRegister, Module: args[0]}, nil
	default:
		return Directive{}, newError(CodeValidation, "", fmt.Sprintf("expected at most one argument, got %d", len(args)))
	}
}

// Apply executes a parsed directive against the coordinator.
func (c *Coordinator) Apply(ctx context.Context, d Directive) error {
	switch d.Kind {
	case KindNoop:
		return nil
	case KindRegister:
		return c.Register(ctx, d.Module)
	case KindEnable:
		return c.Enable(ctx)
	default:
		return newError(CodeValidation, "", fmt.Sprintf("unknown directive kind %d", d.Kind))
	}
}
