package depgraph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
	"github.com/pilocal/pi/internal/selector"
	"github.com/pilocal/pi/internal/versioncache"
)

func withTempCache(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	old := xdg.CacheHome
	xdg.CacheHome = dir
	t.Cleanup(func() { xdg.CacheHome = old })
}

func writeRecipe(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}
	return path
}

func TestResolveOrdersDependenciesBeforeDependents(t *testing.T) {
	withTempCache(t)

	libPath := writeRecipe(t, `
function discover_lib(name)
  create_version(name, "1.0.0", "", "stable"):register()
end
`)
	appPath := writeRecipe(t, `
function discover_app(name)
  local v = create_version(name, "1.0.0", "", "stable")
  v:build_dep("lib", false)
  v:register()
end
`)

	index := recipe.NewIndex()
	index.Packages["lib"] = recipe.PackageEntry{Name: "lib", RecipeFile: libPath, DiscoveryFunc: "discover_lib"}
	index.Packages["app"] = recipe.PackageEntry{Name: "app", RecipeFile: appPath, DiscoveryFunc: "discover_app"}

	shared := recipehost.NewShared()
	opts := Options{
		Indexes:     map[string]*recipe.Index{"demo": index},
		Versions:    versioncache.New(shared),
		Shared:      shared,
		DefaultRepo: "demo",
	}

	sel, err := selector.Parse("app")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	nodes, err := Resolve(opts, sel)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(nodes) != 2 || nodes[0].Record.PkgName != "lib" || nodes[1].Record.PkgName != "app" {
		t.Fatalf("nodes = %+v, want [lib, app]", nodes)
	}
}

func TestResolveDetectsCycle(t *testing.T) {
	withTempCache(t)

	aPath := writeRecipe(t, `
function discover_a(name)
  local v = create_version(name, "1.0.0", "", "stable")
  v:build_dep("b", false)
  v:register()
end
`)
	bPath := writeRecipe(t, `
function discover_b(name)
  local v = create_version(name, "1.0.0", "", "stable")
  v:build_dep("a", false)
  v:register()
end
`)

	index := recipe.NewIndex()
	index.Packages["a"] = recipe.PackageEntry{Name: "a", RecipeFile: aPath, DiscoveryFunc: "discover_a"}
	index.Packages["b"] = recipe.PackageEntry{Name: "b", RecipeFile: bPath, DiscoveryFunc: "discover_b"}

	shared := recipehost.NewShared()
	opts := Options{
		Indexes:     map[string]*recipe.Index{"demo": index},
		Versions:    versioncache.New(shared),
		Shared:      shared,
		DefaultRepo: "demo",
	}

	sel, _ := selector.Parse("a")
	_, err := Resolve(opts, sel)
	if err == nil {
		t.Fatalf("Resolve: want cycle error")
	}
	if _, ok := err.(*CircularDependencyError); !ok {
		t.Fatalf("err = %T, want *CircularDependencyError", err)
	}
}
