package selector

import (
	"testing"

	"github.com/pilocal/pi/internal/recipe"
)

func TestParseFullSelector(t *testing.T) {
	s, err := Parse("myrepo/npm:left-pad=1.2.3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Repo != "myrepo" || s.Prefix != "npm" || s.Name != "left-pad" || s.VersionClause != "1.2.3" {
		t.Fatalf("Parse = %+v", s)
	}
	if s.Key() != "npm/left-pad" {
		t.Fatalf("Key = %q", s.Key())
	}
}

func TestParseBareName(t *testing.T) {
	s, err := Parse("hello")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Repo != "" || s.Prefix != "" || s.Name != "hello" || s.VersionClause != "" {
		t.Fatalf("Parse = %+v", s)
	}
}

func TestParseEmptyErrors(t *testing.T) {
	if _, err := Parse(""); err == nil {
		t.Fatalf("Parse: want error for empty selector")
	}
}

func records() []recipe.Record {
	return []recipe.Record{
		{PkgName: "hello", Version: "1.0.0", ReleaseType: recipe.Stable},
		{PkgName: "hello", Version: "1.2.0", ReleaseType: recipe.Stable},
		{PkgName: "hello", Version: "2.0.0-rc1", ReleaseType: recipe.Unstable},
	}
}

func TestResolveLatestDefault(t *testing.T) {
	r, err := Resolve(records(), "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Version != "2.0.0-rc1" {
		t.Fatalf("Version = %q, want 2.0.0-rc1", r.Version)
	}
}

func TestResolveChannel(t *testing.T) {
	r, err := Resolve(records(), "stable")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Version != "1.2.0" {
		t.Fatalf("Version = %q, want 1.2.0", r.Version)
	}
}

func TestResolveWildcard(t *testing.T) {
	r, err := Resolve(records(), "1.*")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Version != "1.2.0" {
		t.Fatalf("Version = %q, want 1.2.0", r.Version)
	}
}

func TestResolveExact(t *testing.T) {
	r, err := Resolve(records(), "1.0.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if r.Version != "1.0.0" {
		t.Fatalf("Version = %q, want 1.0.0", r.Version)
	}
}

func TestResolveNoMatch(t *testing.T) {
	if _, err := Resolve(records(), "9.9.9"); err == nil {
		t.Fatalf("Resolve: want error for no match")
	}
}
