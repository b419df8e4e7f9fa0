package manifest

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// hclManifest represents the top-level structure of an HCL manifest for
// decoding.
type hclManifest struct {
	Modules hcl.Expression    `hcl:"modules,optional"`
	Blocks  []*hclModuleBlock `hcl:"module,block"`
}

// hclModuleBlock is one module "Name" {} block.
type hclModuleBlock struct {
	Name string `hcl:"name,label"`
}

// LoadHCL reads an HCL manifest from disk. Modules come from the
// optional modules list attribute and from repeated module blocks, in
// file order.
func LoadHCL(path string) (Manifest, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Manifest{}, fmt.Errorf("manifest: parse %s: %w", path, diags)
	}

	var parsed hclManifest
	decodeDiags := gohcl.DecodeBody(file.Body, nil, &parsed)
	if decodeDiags.HasErrors() {
		return Manifest{}, fmt.Errorf("manifest: decode %s: %w", path, decodeDiags)
	}

	var modules []string
	if parsed.Modules != nil {
		val, evalDiags := parsed.Modules.Value(nil)
		if evalDiags.HasErrors() {
			return Manifest{}, fmt.Errorf("manifest: evaluate modules in %s: %w", path, evalDiags)
		}
		if !val.IsNull() {
			list, err := convert.Convert(val, cty.List(cty.String))
			if err != nil {
				return Manifest{}, fmt.Errorf("manifest: modules in %s must be a list of strings: %w", path, err)
			}
			for it := list.ElementIterator(); it.Next(); {
				_, elem := it.Element()
				modules = append(modules, elem.AsString())
			}
		}
	}
	for _, block := range parsed.Blocks {
		modules = append(modules, block.Name)
	}

	return Manifest{Modules: modules}, nil
}
