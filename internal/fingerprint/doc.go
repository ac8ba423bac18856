// Package fingerprint computes stable hashes over step records and recipe
// evaluation contexts, used as content-store cache keys (§3, §4.1, §8
// "Fingerprint purity").
//
// A fingerprint depends only on its input's declared fields after
// placeholder substitution: two calls with equal (already-substituted)
// inputs always hash to the same digest, and the digest never observes
// anything outside the struct it is given (no timestamps, no PIDs, no
// environment reads).
package fingerprint
