// Package recipehost embeds the Lua scripting engine (§1: the scripting
// engine itself is an external collaborator; this package is the
// host-exposed API and value contract around it) and evaluates recipe
// files.
//
// A fresh *Context is created per evaluation call. It owns the recipe
// filename, the detected OS/architecture, the resolved cache/download/
// packages directories, the force flag, the workspace options map, and
// growable collections for packages/managers/versions registered during
// the call (§4.5). Registrations made on one Context are never visible
// from another: there is no package-level mutable registry.
package recipehost
