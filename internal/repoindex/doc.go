// Package repoindex maintains the repository registry (name -> local
// directory) and the per-repository package/manager index produced by
// walking a repository's recipe files and evaluating each one (§4.6).
//
// A sync discards the previous index for a repository and rebuilds it
// from scratch; nothing is merged across syncs, so a recipe file removed
// from the repository disappears from the index on the next sync.
package repoindex
