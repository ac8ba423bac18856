// Package pipeline executes a version record's step sequence: fetch,
// extract, run (§4.10). Each step is fingerprinted (after @PACKAGES_DIR
// is replaced by the resolved packages directory, so that path is part
// of the fingerprint) and checked against the content store before
// running. A fetch step always self-skips via
// its own digest check rather than consulting the store; once any
// extract or run step actually executes (a cache miss or the workspace's
// force flag), every later step in the same package re-executes even if
// its own fingerprint would otherwise have hit (the "recompute cascade").
package pipeline
