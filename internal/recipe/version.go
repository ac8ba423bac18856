package recipe

import (
	"regexp"
	"strconv"
	"strings"
)

// ReleaseType classifies a version record for release-channel selector
// matching (§4.8 of the design). Anything outside the four named literals
// is treated as a version-shape literal and only matches selectors that
// request that literal verbatim.
type ReleaseType string

const (
	Stable   ReleaseType = "stable"
	Unstable ReleaseType = "unstable"
	Testing  ReleaseType = "testing"
	LTS      ReleaseType = "lts"
)

// releaseTypePattern accepts a digit-dot shape with an optional -suffix,
// e.g. "1.2.3" or "1.2.3-rc1", as a release-type literal distinct from the
// four named channels.
var releaseTypePattern = regexp.MustCompile(`^[0-9]+(\.[0-9]+)*(-[A-Za-z0-9.]+)?$`)

// ValidReleaseType reports whether s is one of the named release channels
// or a digit-dot version-shape literal.
func ValidReleaseType(s string) bool {
	switch ReleaseType(s) {
	case Stable, Unstable, Testing, LTS:
		return true
	}
	return releaseTypePattern.MatchString(s)
}

// Version is a structured, comparable version tuple: numeric components
// parsed left-to-right until a non-numeric segment is hit, plus the raw
// string used for tie-breaking and exact-match selectors.
type Version struct {
	Components []int64 `json:"components"`
	Raw        string  `json:"raw"`
}

// ParseVersion splits s on '.' and '-' boundaries, parsing each leading
// numeric run into a component. Non-numeric content does not abort parsing;
// it simply stops contributing components, so "1.2.3-rc1" yields
// components [1,2,3].
func ParseVersion(s string) Version {
	var components []int64
	for _, field := range splitVersionFields(s) {
		n, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			break
		}
		components = append(components, n)
	}
	return Version{Components: components, Raw: s}
}

func splitVersionFields(s string) []string {
	s = strings.ReplaceAll(s, "-", ".")
	return strings.Split(s, ".")
}

// Compare orders two versions component-wise, then falls back to a
// lexicographic comparison of the raw string when components tie (§3:
// "ordering is lexicographic over components then over raw").
func (v Version) Compare(o Version) int {
	for i := 0; i < len(v.Components) || i < len(o.Components); i++ {
		var a, b int64
		if i < len(v.Components) {
			a = v.Components[i]
		}
		if i < len(o.Components) {
			b = o.Components[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return strings.Compare(v.Raw, o.Raw)
}

// Record is a single version of a package or manager sub-package, as
// produced by a recipe's discovery function and, after register(), stored
// in the version cache.
type Record struct {
	PkgName     string      `json:"pkgname"`
	Version     string      `json:"version"`
	ReleaseDate string      `json:"release_date,omitempty"`
	ReleaseType ReleaseType `json:"release_type,omitempty"`
	Stream      string      `json:"stream,omitempty"`
	Pipeline    []Step      `json:"pipeline"`
	Exports     []Export    `json:"exports"`
	Flags       []Flag      `json:"flags"`
	BuildDeps   []BuildDep  `json:"build_deps"`
	Verify      Verify      `json:"verify,omitempty"`
}

// Verify declares how "pi devel test" checks a built package: run Command
// inside the built source root and, if Pattern is non-empty, require it to
// match somewhere in the command's combined output; an empty Pattern only
// requires a zero exit status.
type Verify struct {
	Command string `json:"command,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

// Parsed returns the structured Version for comparison/sorting.
func (r Record) Parsed() Version {
	return ParseVersion(r.Version)
}

// Flag declares an option a recipe recognizes. Recipes query the
// effective value via flag_value(name) in the host API (§4.5, §6.4).
type Flag struct {
	Name    string `json:"name"`
	Help    string `json:"help,omitempty"`
	Default string `json:"default,omitempty"`
}

// BuildDep is a build-time dependency selector. Optional dependencies that
// fail to resolve are skipped rather than failing the whole build.
type BuildDep struct {
	Selector string `json:"selector"`
	Optional bool   `json:"optional,omitempty"`
}
