// Package store implements the content-addressed step cache (§4.1).
//
// Outcomes are keyed by (package name, version, step index) and validated
// against a fingerprint at lookup time: a stored outcome is only returned
// when its fingerprint matches the caller's and its status is Success. A
// corrupt or missing record is always treated as absent, never as a
// partial hit. Writers coordinate with a per-package-file rewrite rather
// than an in-place patch, so the latest committer wins and no reader ever
// observes a half-written file.
package store
