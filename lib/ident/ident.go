// Package ident validates module identifiers and resolves them to load
// locators. An identifier names a module in namespaced form, such as
// "Web::Server" or "Web.Server"; a locator is the facility-specific
// reference the module loads from.
package ident

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// identifierPattern matches one or more name segments joined by "::" or
// ".". A segment starts with a letter or underscore followed by any mix
// of letters, digits, and underscores. The two separator forms may mix
// within one identifier.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(?:(?:::|\.)[A-Za-z_][A-Za-z0-9_]*)*$`)

// Valid reports whether module is a well-formed module identifier.
func Valid(module string) bool {
	return identifierPattern.MatchString(module)
}

// Validate returns an error when module is not a well-formed
// identifier.
func Validate(module string) error {
	if module == "" {
		return fmt.Errorf("ident: empty module identifier")
	}
	if !identifierPattern.MatchString(module) {
		return fmt.Errorf("ident: malformed module identifier %q", module)
	}
	return nil
}

// Segments splits a module identifier into its name segments. Both
// separator forms split the same way, so "Web::Server" and "Web.Server"
// yield identical segments.
func Segments(module string) []string {
	normalized := strings.ReplaceAll(module, "::", ".")
	return strings.Split(normalized, ".")
}

// PathResolver derives filesystem-style locators from module
// identifiers: segments become path elements under Root, with Ext
// appended verbatim. The zero value resolves "Web::Server" to
// "Web/Server".
type PathResolver struct {
	Root string
	Ext  string
}

// Resolve validates module and returns its locator. Identifiers that
// differ only in separator form resolve to the same locator.
func (r PathResolver) Resolve(module string) (string, error) {
	if err := Validate(module); err != nil {
		return "", err
	}
	locator := filepath.Join(Segments(module)...)
	if r.Ext != "" {
		locator += r.Ext
	}
	if r.Root != "" {
		locator = filepath.Join(r.Root, locator)
	}
	return locator, nil
}
