package recipehost

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRecipe(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "recipe.lua")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write recipe: %v", err)
	}
	return path
}

func TestEvalFileRegistersPackages(t *testing.T) {
	path := writeRecipe(t, `
add_package("hello", "discover_hello")
`)
	ctx, err := EvalFile(Options{RecipeFile: path, OS: "linux", Arch: "amd64"})
	if err != nil {
		t.Fatalf("EvalFile: %v", err)
	}
	if len(ctx.Packages) != 1 || ctx.Packages[0].Name != "hello" {
		t.Fatalf("Packages = %+v, want one entry named hello", ctx.Packages)
	}
	if ctx.Packages[0].DiscoveryFunc != "discover_hello" {
		t.Fatalf("DiscoveryFunc = %q", ctx.Packages[0].DiscoveryFunc)
	}
}

func TestCallDiscoveryRegistersVersion(t *testing.T) {
	path := writeRecipe(t, `
function discover_hello(name)
  local v = create_version(name, "1.2.3", "2026-01-01", "stable")
  v:set_stream("stable")
  v:fetch("https://example.com/hello-1.2.3.tar.gz", "", "hello.tar.gz")
  v:extract("tar.gz")
  v:run("./configure", "src")
  v:export_link("bin/hello", "bin/hello")
  v:export_env("HELLO_HOME", "$/share/hello")
  v:register()
end
`)
	ctx, err := CallDiscovery(Options{RecipeFile: path, OS: "linux", Arch: "amd64"}, "discover_hello", "hello")
	if err != nil {
		t.Fatalf("CallDiscovery: %v", err)
	}
	if len(ctx.Versions) != 1 {
		t.Fatalf("Versions = %+v, want one record", ctx.Versions)
	}
	rec := ctx.Versions[0]
	if rec.PkgName != "hello" || rec.Version != "1.2.3" || rec.Stream != "stable" {
		t.Fatalf("record = %+v", rec)
	}
	if len(rec.Pipeline) != 3 {
		t.Fatalf("Pipeline = %+v, want 3 steps", rec.Pipeline)
	}
	if len(rec.Exports) != 2 {
		t.Fatalf("Exports = %+v, want 2 exports", rec.Exports)
	}
}

func TestCallDiscoveryInvalidReleaseType(t *testing.T) {
	path := writeRecipe(t, `
function discover_bad(name)
  create_version(name, "1.0", "", "nonsense")
end
`)
	_, err := CallDiscovery(Options{RecipeFile: path, OS: "linux", Arch: "amd64"}, "discover_bad", "bad")
	if err == nil {
		t.Fatalf("CallDiscovery: want error for invalid release type")
	}
}

func TestFlagValueUsesWorkspaceOverrideOrDefault(t *testing.T) {
	path := writeRecipe(t, `
function discover(name)
  local v = create_version(name, "1.0", "", "stable")
  v:add_flag("ssl", "enable ssl", "off")
  local val = v:flag_value("ssl")
  v:export_env("SSL_FLAG", val)
  v:register()
end
`)
	ctx, err := CallDiscovery(Options{
		RecipeFile:       path,
		WorkspaceOptions: map[string]string{"ssl": "on"},
	}, "discover", "demo")
	if err != nil {
		t.Fatalf("CallDiscovery: %v", err)
	}
	if ctx.Versions[0].Exports[0].Val != "on" {
		t.Fatalf("SSL_FLAG = %q, want on (workspace override)", ctx.Versions[0].Exports[0].Val)
	}
}

func TestParseJSONAttribute(t *testing.T) {
	path := writeRecipe(t, `
function discover(name)
  local doc = parse_json('{"tag_name": "v2.0.0", "assets": [{"name": "a.tar.gz"}]}')
  local tag = doc:attribute("tag_name")
  create_version(name, tag, "", "stable"):export_env("TAG", tag):register()
end
`)
	ctx, err := CallDiscovery(Options{RecipeFile: path}, "discover", "demo")
	if err != nil {
		t.Fatalf("CallDiscovery: %v", err)
	}
	if ctx.Versions[0].Version != "v2.0.0" {
		t.Fatalf("Version = %q, want v2.0.0", ctx.Versions[0].Version)
	}
}

func TestExtractRegexCapturesGroup(t *testing.T) {
	v, ok := extractRegex(`v(\d+\.\d+\.\d+)`, "release v3.1.4 is out")
	if !ok || v != "3.1.4" {
		t.Fatalf("extractRegex = %q, %v, want 3.1.4, true", v, ok)
	}
}

func TestHTMLSelectByTag(t *testing.T) {
	q, err := parseHTML(`<html><body><a class="dl" href="/x">x</a></body></html>`)
	if err != nil {
		t.Fatalf("parseHTML: %v", err)
	}
	links := q.Select("a")
	if len(links) != 1 {
		t.Fatalf("Select(a) = %d nodes, want 1", len(links))
	}
	href, ok := links[0].Attribute("href")
	if !ok || href != "/x" {
		t.Fatalf("href = %q, %v", href, ok)
	}
}
