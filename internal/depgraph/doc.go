// Package depgraph resolves a package's transitive build-dependency
// graph into a topologically ordered build plan (§4.9).
//
// Each build dependency selector is resolved to a concrete recipe.Record
// by re-invoking its discovery function with the dependent workspace's
// effective options, so two workspaces that configure the same package
// differently can get different concrete pipelines for it. Resolution
// walks depth-first with a cycle detector; a package reachable from
// itself through its own build dependencies is a hard error.
package depgraph
