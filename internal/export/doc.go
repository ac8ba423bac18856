// Package export materializes a version record's exports list into a
// workspace's composition root (§4.11). Every export becomes either a
// symlink (Link), an accumulated environment variable (Env), or an empty
// directory (Path). Link is the only form that touches the filesystem
// beyond directory creation, and it only ever creates symlinks: a
// destination that already exists is removed first so re-exporting after
// a rebuild cannot leave a stale symlink alongside a fresh one.
package export
