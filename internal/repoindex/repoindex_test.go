package repoindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/adrg/xdg"
)

func withTempCache(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	oldCache, oldConfig := xdg.CacheHome, xdg.ConfigHome
	xdg.CacheHome = filepath.Join(dir, "cache")
	xdg.ConfigHome = filepath.Join(dir, "config")
	t.Cleanup(func() {
		xdg.CacheHome, xdg.ConfigHome = oldCache, oldConfig
	})
}

func TestSyncThenLoadReadsCache(t *testing.T) {
	withTempCache(t)

	repoDir := t.TempDir()
	recipePath := filepath.Join(repoDir, "hello.lua")
	if err := os.WriteFile(recipePath, []byte(`add_package("hello", "discover_hello")`), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}

	index, err := Sync("demo", repoDir, nil)
	if err != nil {
		t.Fatalf("Sync: %v", err)
	}
	if _, ok := index.Packages["hello"]; !ok {
		t.Fatalf("Packages = %+v, want hello", index.Packages)
	}

	loaded, err := Load("demo", repoDir, false, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := loaded.Packages["hello"]; !ok {
		t.Fatalf("loaded Packages = %+v, want hello", loaded.Packages)
	}
}

func TestRegistryAddSaveLoad(t *testing.T) {
	withTempCache(t)

	reg, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if err := reg.Add("demo", t.TempDir()); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := reg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded, err := LoadRegistry()
	if err != nil {
		t.Fatalf("LoadRegistry (reload): %v", err)
	}
	if _, ok := reloaded.Repos["demo"]; !ok {
		t.Fatalf("Repos = %+v, want demo", reloaded.Repos)
	}
}
