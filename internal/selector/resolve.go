package selector

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/recipe"
)

// Resolve picks the best record in records for clause, the version half
// of a Selector (§4.8: exact / release-channel / wildcard / latest
// matching policies).
func Resolve(records []recipe.Record, clause string) (recipe.Record, error) {
	if len(records) == 0 {
		return recipe.Record{}, ErrNoMatch
	}

	switch {
	case clause == "":
		return latest(records)
	case strings.Contains(clause, "*"):
		return wildcardMatch(records, clause)
	case isReleaseChannel(clause):
		return channelMatch(records, clause)
	default:
		return exactMatch(records, clause)
	}
}

func isReleaseChannel(s string) bool {
	switch recipe.ReleaseType(s) {
	case recipe.Stable, recipe.Unstable, recipe.Testing, recipe.LTS:
		return true
	}
	return false
}

func latest(records []recipe.Record) (recipe.Record, error) {
	best := records[0]
	for _, r := range records[1:] {
		if r.Parsed().Compare(best.Parsed()) > 0 {
			best = r
		}
	}
	return best, nil
}

func channelMatch(records []recipe.Record, channel string) (recipe.Record, error) {
	var filtered []recipe.Record
	for _, r := range records {
		if string(r.ReleaseType) == channel {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return recipe.Record{}, errors.Wrapf(ErrNoMatch, "release channel %q", channel)
	}
	return latest(filtered)
}

func exactMatch(records []recipe.Record, version string) (recipe.Record, error) {
	for _, r := range records {
		if r.Version == version {
			return r, nil
		}
	}
	return recipe.Record{}, errors.Wrapf(ErrNoMatch, "version %q", version)
}

// wildcardMatch supports a single trailing "*" matching any suffix, e.g.
// "1.2.*" matches "1.2.0", "1.2.9", but not "1.3.0".
func wildcardMatch(records []recipe.Record, pattern string) (recipe.Record, error) {
	prefix := strings.TrimSuffix(pattern, "*")

	var filtered []recipe.Record
	for _, r := range records {
		if strings.HasPrefix(r.Version, prefix) {
			filtered = append(filtered, r)
		}
	}
	if len(filtered) == 0 {
		return recipe.Record{}, errors.Wrapf(ErrNoMatch, "wildcard %q", pattern)
	}
	return latest(filtered)
}
