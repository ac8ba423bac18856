// Package fetch downloads a URL to a named destination file, verifying a
// declared digest and skipping the network round-trip when the
// destination already matches (§4.2).
package fetch
