// Package selector parses and resolves package selectors of the form
// "[repo/][prefix:]name[=version]" (§4.8) against a repository's version
// list, choosing the best matching recipe.Record under the exact,
// release-channel, or wildcard matching policy implied by the selector's
// version clause.
package selector
