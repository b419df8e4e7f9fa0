package luaload

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const baseModuleSource = `base_url = "https://internal.example"`

const dependentModuleSource = `
if base_url == nil then
	error("base module not loaded")
end
health_url = base_url .. "/health"
`

const brokenModuleSource = `this is not lua (`

func writeModule(t *testing.T, root, locator, source string) {
	t.Helper()
	path := filepath.Join(root, locator)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", locator, err)
	}
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatalf("write %s: %v", locator, err)
	}
}

func TestFacility_Load(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Web/Base.lua", baseModuleSource)
	f := New(root)

	ctx := context.Background()
	if f.Loaded("Web/Base.lua") {
		t.Error("Locator must not report loaded before Load")
	}
	if err := f.Load(ctx, "Web/Base.lua"); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !f.Loaded("Web/Base.lua") {
		t.Error("Locator must report loaded after Load")
	}
}

func TestFacility_Load_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Web/Base.lua", baseModuleSource)
	f := New(root)

	ctx := context.Background()
	if err := f.Load(ctx, "Web/Base.lua"); err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Remove the source; a reload would fail, a no-op will not.
	if err := os.Remove(filepath.Join(root, "Web/Base.lua")); err != nil {
		t.Fatalf("remove module: %v", err)
	}
	if err := f.Load(ctx, "Web/Base.lua"); err != nil {
		t.Errorf("Second load must be a no-op, got %v", err)
	}
}

func TestFacility_Load_SharedState(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Web/Base.lua", baseModuleSource)
	writeModule(t, root, "Web/Health.lua", dependentModuleSource)

	// Alone, the dependent module aborts on the missing global.
	alone := New(root)
	if err := alone.Load(context.Background(), "Web/Health.lua"); err == nil {
		t.Fatal("Expected error running dependent module without its base")
	}

	// After the base module, the same state carries the global.
	f := New(root)
	ctx := context.Background()
	if err := f.Load(ctx, "Web/Base.lua"); err != nil {
		t.Fatalf("Load base error: %v", err)
	}
	if err := f.Load(ctx, "Web/Health.lua"); err != nil {
		t.Fatalf("Load dependent error: %v", err)
	}
}

func TestFacility_Load_BrokenSource(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Web/Broken.lua", brokenModuleSource)
	f := New(root)

	if err := f.Load(context.Background(), "Web/Broken.lua"); err == nil {
		t.Fatal("Expected error for broken source")
	}
	if f.Loaded("Web/Broken.lua") {
		t.Error("Failed load must not mark the locator loaded")
	}
}

func TestFacility_Load_MissingFile(t *testing.T) {
	f := New(t.TempDir())
	if err := f.Load(context.Background(), "No/Such.lua"); err == nil {
		t.Fatal("Expected error for missing file")
	}
}

func TestFacility_Load_FailureThenRecovery(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, "Web/Flaky.lua", `error("not ready")`)
	f := New(root)

	ctx := context.Background()
	if err := f.Load(ctx, "Web/Flaky.lua"); err == nil {
		t.Fatal("Expected error from failing module")
	}

	// A fixed module loads on retry within the same state.
	writeModule(t, root, "Web/Flaky.lua", `flaky_ready = true`)
	if err := f.Load(ctx, "Web/Flaky.lua"); err != nil {
		t.Fatalf("Retry load error: %v", err)
	}
	if !f.Loaded("Web/Flaky.lua") {
		t.Error("Retry must mark the locator loaded")
	}
}
