package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pilocal/pi/internal/recipe"
)

func TestMaterializeLinkCreatesSymlink(t *testing.T) {
	src := t.TempDir()
	binFile := filepath.Join(src, "hello")
	if err := os.WriteFile(binFile, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("write: %v", err)
	}

	comp := t.TempDir()
	err := Materialize(Options{
		CompositionRoot: comp,
		SourceRoot:      src,
		Exports:         []recipe.Export{recipe.Link("hello", "bin/hello")},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	target, err := os.Readlink(filepath.Join(comp, "bin", "hello"))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != binFile {
		t.Fatalf("target = %q, want %q", target, binFile)
	}
}

func TestMaterializeLinkReplacesExisting(t *testing.T) {
	src := t.TempDir()
	os.WriteFile(filepath.Join(src, "hello"), nil, 0o644)

	comp := t.TempDir()
	os.MkdirAll(filepath.Join(comp, "bin"), 0o755)
	os.WriteFile(filepath.Join(comp, "bin", "hello"), []byte("stale"), 0o644)

	err := Materialize(Options{
		CompositionRoot: comp,
		SourceRoot:      src,
		Exports:         []recipe.Export{recipe.Link("hello", "bin/hello")},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	fi, err := os.Lstat(filepath.Join(comp, "bin", "hello"))
	if err != nil {
		t.Fatalf("Lstat: %v", err)
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		t.Fatalf("expected a symlink to have replaced the stale file")
	}
}

func TestMaterializeLinkAppendsBaseNameForDirectoryDest(t *testing.T) {
	src := t.TempDir()
	binFile := filepath.Join(src, "hello")
	os.WriteFile(binFile, []byte("#!/bin/sh\n"), 0o755)

	comp := t.TempDir()
	if err := os.MkdirAll(filepath.Join(comp, "bin"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	err := Materialize(Options{
		CompositionRoot: comp,
		SourceRoot:      src,
		Exports:         []recipe.Export{recipe.Link("hello", "bin")},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	target, err := os.Readlink(filepath.Join(comp, "bin", "hello"))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != binFile {
		t.Fatalf("target = %q, want %q", target, binFile)
	}
}

func TestMaterializeLinkAppendsBaseNameForTrailingSlashDest(t *testing.T) {
	src := t.TempDir()
	binFile := filepath.Join(src, "hello")
	os.WriteFile(binFile, []byte("#!/bin/sh\n"), 0o755)

	comp := t.TempDir()
	err := Materialize(Options{
		CompositionRoot: comp,
		SourceRoot:      src,
		Exports:         []recipe.Export{recipe.Link("hello", "bin/")},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	target, err := os.Readlink(filepath.Join(comp, "bin", "hello"))
	if err != nil {
		t.Fatalf("Readlink: %v", err)
	}
	if target != binFile {
		t.Fatalf("target = %q, want %q", target, binFile)
	}
}

func TestMaterializeEnvAccumulates(t *testing.T) {
	env := map[string]string{}
	err := Materialize(Options{
		CompositionRoot: t.TempDir(),
		PackagesDir:     "/cache/packages",
		Exports:         []recipe.Export{recipe.Env("HELLO_HOME", "@PACKAGES_DIR/hello")},
		Env:             env,
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if env["HELLO_HOME"] != "/cache/packages/hello" {
		t.Fatalf("HELLO_HOME = %q", env["HELLO_HOME"])
	}
}

func TestMaterializePathCreatesDirectory(t *testing.T) {
	comp := t.TempDir()
	err := Materialize(Options{
		CompositionRoot: comp,
		Exports:         []recipe.Export{recipe.Path("share/man")},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if fi, err := os.Stat(filepath.Join(comp, "share", "man")); err != nil || !fi.IsDir() {
		t.Fatalf("expected share/man directory, err=%v", err)
	}
}

func TestMaterializeGlobLinksEachMatch(t *testing.T) {
	src := t.TempDir()
	os.WriteFile(filepath.Join(src, "a.so"), nil, 0o644)
	os.WriteFile(filepath.Join(src, "b.so"), nil, 0o644)

	comp := t.TempDir()
	err := Materialize(Options{
		CompositionRoot: comp,
		SourceRoot:      src,
		Exports:         []recipe.Export{recipe.Link(filepath.Join(src, "*.so"), "lib")},
	})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	for _, name := range []string{"a.so", "b.so"} {
		if _, err := os.Lstat(filepath.Join(comp, "lib", name)); err != nil {
			t.Fatalf("expected lib/%s, err=%v", name, err)
		}
	}
}
