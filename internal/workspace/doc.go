// Package workspace loads and merges a cave's descriptor file (§4.12,
// §6.1). A descriptor declares a base configuration plus any number of
// named variant overlays; Effective(variant) merges the two according to
// the §6.1 rules: declared packages union, Set entries are last-writer-
// wins, Unset removes a key the base declared, and per-package Options
// deep-merge key by key rather than replacing the whole map.
package workspace
