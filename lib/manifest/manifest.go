// Package manifest reads preload manifests: files listing the modules a
// host registers with the coordinator at startup.
package manifest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gitpan/prefork/lib/prefork"
)

// Manifest lists modules a host wants queued before forking.
type Manifest struct {
	Modules []string `yaml:"modules"`
}

// Load reads the manifest at path, dispatching on the file extension.
// YAML (.yaml, .yml) and HCL (.hcl) manifests are supported.
func Load(path string) (Manifest, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(path)
	case ".hcl":
		return LoadHCL(path)
	default:
		return Manifest{}, fmt.Errorf("manifest: unsupported extension %q in %s", filepath.Ext(path), path)
	}
}

// Apply registers every listed module with the coordinator, stopping at
// the first failure.
func (m Manifest) Apply(ctx context.Context, c *prefork.Coordinator) error {
	for _, module := range m.Modules {
		if err := c.Register(ctx, module); err != nil {
			return fmt.Errorf("manifest: register %s: %w", module, err)
		}
	}
	return nil
}
