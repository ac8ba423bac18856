package devel

import (
	"context"
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

func TestMatchingPackagesFiltersByName(t *testing.T) {
	entries := []recipe.PackageEntry{
		{Name: "lib"},
		{Name: "app"},
	}
	got := matchingPackages(entries, "app")
	if len(got) != 1 || got[0].Name != "app" {
		t.Fatalf("matchingPackages = %+v, want [app]", got)
	}
}

func TestMatchingPackagesEmptyNameReturnsAll(t *testing.T) {
	entries := []recipe.PackageEntry{{Name: "lib"}, {Name: "app"}}
	got := matchingPackages(entries, "")
	if len(got) != 2 {
		t.Fatalf("matchingPackages = %+v, want all entries", got)
	}
}

func TestTestBuildsRegisteredPackageWithoutVerify(t *testing.T) {
	withTempCache(t)

	path := writeRecipe(t, `
add_package("hello", "discover_hello")

function discover_hello(name)
  create_version(name, "1.0.0", "", "stable"):register()
end
`)

	results, err := Test(context.Background(), Options{RecipeFile: path})
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if len(results) != 1 || results[0].PackageName != "hello" || results[0].Version != "1.0.0" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Verified {
		t.Fatalf("Verified = true, want false (no verify declared)")
	}
}

func TestTestFiltersByPackageName(t *testing.T) {
	withTempCache(t)

	path := writeRecipe(t, `
add_package("lib", "discover_lib")
add_package("app", "discover_app")

function discover_lib(name)
  create_version(name, "1.0.0", "", "stable"):register()
end

function discover_app(name)
  create_version(name, "2.0.0", "", "stable"):register()
end
`)

	results, err := Test(context.Background(), Options{RecipeFile: path, PackageName: "app"})
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if len(results) != 1 || results[0].PackageName != "app" {
		t.Fatalf("results = %+v, want only app", results)
	}
}

func TestTestUnknownPackageErrors(t *testing.T) {
	withTempCache(t)

	path := writeRecipe(t, `
add_package("lib", "discover_lib")

function discover_lib(name)
  create_version(name, "1.0.0", "", "stable"):register()
end
`)

	_, err := Test(context.Background(), Options{RecipeFile: path, PackageName: "missing"})
	if err == nil {
		t.Fatalf("Test: want error for unmatched package name")
	}
}
