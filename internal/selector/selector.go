package selector

import (
	"strings"

	"github.com/pkg/errors"
)

// Selector is the parsed form of "[repo/][prefix:]name[=version]" (§4.8).
// Repo is empty when the selector does not scope to a specific
// repository. Prefix is empty for a plain package name; when set, Name is
// looked up inside that manager's namespace (npm, cargo, go, ...).
// VersionClause is empty (meaning "latest"), a release-channel literal
// (stable/unstable/testing/lts), a wildcard ("1.2.*"), or an exact
// version.
type Selector struct {
	Repo          string
	Prefix        string
	Name          string
	VersionClause string
}

// Parse parses a raw selector string.
func Parse(s string) (Selector, error) {
	if s == "" {
		return Selector{}, ErrEmptySelector
	}

	rest := s
	var repo string
	if idx := strings.Index(rest, "/"); idx >= 0 {
		repo = rest[:idx]
		rest = rest[idx+1:]
	}

	name := rest
	version := ""
	if idx := strings.Index(rest, "="); idx >= 0 {
		name = rest[:idx]
		version = rest[idx+1:]
	}

	prefix := ""
	if idx := strings.Index(name, ":"); idx >= 0 {
		prefix = name[:idx]
		name = name[idx+1:]
	}

	if name == "" {
		return Selector{}, errors.Wrapf(ErrEmptySelector, "%q", s)
	}

	return Selector{Repo: repo, Prefix: prefix, Name: name, VersionClause: version}, nil
}

// Key returns the internal (repository-relative) version-cache lookup
// key for the selector: "name" for a plain package, or "prefix/name" for
// a manager-namespaced one.
func (s Selector) Key() string {
	if s.Prefix == "" {
		return s.Name
	}
	return s.Prefix + "/" + s.Name
}

// String renders the selector back to its canonical surface form.
func (s Selector) String() string {
	var sb strings.Builder
	if s.Repo != "" {
		sb.WriteString(s.Repo)
		sb.WriteByte('/')
	}
	if s.Prefix != "" {
		sb.WriteString(s.Prefix)
		sb.WriteByte(':')
	}
	sb.WriteString(s.Name)
	if s.VersionClause != "" {
		sb.WriteByte('=')
		sb.WriteString(s.VersionClause)
	}
	return sb.String()
}
