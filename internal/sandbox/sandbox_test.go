package sandbox

import (
	"strings"
	"testing"
)

func TestSubstitutePlaceholders(t *testing.T) {
	got := substitute("$/bin:@HOME/.local/bin:@PACKAGES_DIR", "/comp", "/home/dev", "/cache/packages")
	want := "/comp/bin:/home/dev/.local/bin:/cache/packages"
	if got != want {
		t.Fatalf("substitute = %q, want %q", got, want)
	}
}

func TestSubstituteBareDollar(t *testing.T) {
	got := substitute("$", "/comp", "/home/dev", "/cache/packages")
	if got != "/comp" {
		t.Fatalf("substitute = %q, want /comp", got)
	}
}

func TestMergedEnvSetOverridesPackageEnv(t *testing.T) {
	cfg := Config{
		CompositionRoot: "/comp",
		HostHome:        "/home/dev",
		Env:             map[string]string{"FOO": "pkg-value"},
		Set:             map[string]string{"FOO": "workspace-value"},
	}
	env := cfg.mergedEnv()
	if env["FOO"] != "workspace-value" {
		t.Fatalf("FOO = %q, want workspace-value (set overrides env)", env["FOO"])
	}
}

func TestBuildPathCompositionWins(t *testing.T) {
	cfg := Config{
		CompositionRoot: "/comp",
		HostHome:        "/home/dev",
		Dependencies:    []Dependency{{Dir: "/deps/foo", BinDir: "/deps/foo/bin"}},
	}
	path := buildPath(cfg)
	if !strings.HasPrefix(path, "/comp/bin:") {
		t.Fatalf("PATH = %q, want composition bin first", path)
	}
	if !strings.Contains(path, "/deps/foo/bin") {
		t.Fatalf("PATH = %q, want dependency bin included", path)
	}
}

func TestHostnameIncludesWorkspaceAndVariant(t *testing.T) {
	name := hostname(Config{Workspace: "myws", Variant: "gpu"})
	if !strings.Contains(name, "myws") || !strings.Contains(name, "gpu") {
		t.Fatalf("hostname = %q, want it to contain workspace and variant", name)
	}
}

func TestBuildArgsFailsOnMissingWorkspaceRoot(t *testing.T) {
	_, err := buildArgs(Config{
		HomeRoot: t.TempDir(),
		HostHome: "/home/dev",
	})
	if err == nil {
		t.Fatalf("buildArgs: want error for missing workspace root")
	}
}
