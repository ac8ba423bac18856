// Package extract expands an archive into a destination directory,
// idempotent via a per-directory completion marker (§4.3).
//
// Supported formats are detected from the archive's filename suffix:
// .tar.gz/.tgz, .tar.xz, and .zip. Any other suffix fails with
// ErrUnsupportedFormat.
package extract
