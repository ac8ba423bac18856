// Package versioncache resolves and caches the version list for a single
// (repository, package-or-manager-name) pair (§4.7). Lookups try memory,
// then the on-disk cache file, then fall back to invoking the package's
// discovery function and persisting the result before returning.
package versioncache
