package versioncache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"

	"github.com/pilocal/pi/internal/recipe"
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

func TestGetPackageResyncsAndCaches(t *testing.T) {
	withTempCache(t)

	path := writeRecipe(t, `
function discover_hello(name)
  create_version(name, "1.0.0", "", "stable"):register()
  create_version(name, "1.1.0", "", "stable"):register()
end
`)
	index := recipe.NewIndex()
	index.Packages["hello"] = recipe.PackageEntry{Name: "hello", RecipeFile: path, DiscoveryFunc: "discover_hello"}

	c := New(nil)
	recs, err := c.Get("demo", index, "hello", false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("recs = %+v, want 2", recs)
	}

	recs2, err := c.Get("demo", index, "hello", false)
	if err != nil {
		t.Fatalf("Get (cached): %v", err)
	}
	if len(recs2) != 2 {
		t.Fatalf("recs2 = %+v, want 2 (from memory or disk cache)", recs2)
	}
}

func TestGetManagerPassesManagerAndSubName(t *testing.T) {
	withTempCache(t)

	path := writeRecipe(t, `
function discover_npm(manager, sub)
  create_version(manager .. ":" .. sub, "2.0.0", "", "stable"):register()
end
`)
	index := recipe.NewIndex()
	index.Managers["npm"] = recipe.ManagerEntry{Name: "npm", RecipeFile: path, DiscoveryFunc: "discover_npm"}

	c := New(nil)
	recs, err := c.Get("demo", index, "npm/left-pad", false)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(recs) != 1 || recs[0].PkgName != "npm:left-pad" {
		t.Fatalf("recs = %+v, want npm:left-pad", recs)
	}
}

func TestGetUnknownPackageErrors(t *testing.T) {
	withTempCache(t)
	c := New(nil)
	_, err := c.Get("demo", recipe.NewIndex(), "missing", false)
	if err == nil {
		t.Fatalf("Get: want error for unknown package")
	}
}
