package recipehost

import (
	"github.com/pilocal/pi/internal/recipe"
)

// Options configures a single recipe evaluation call. Every field is
// read-only input; nothing here is mutated by evaluation.
type Options struct {
	// RecipeFile is the path passed to EvalFile; add_package and
	// add_manager record it as the registered entry's recipe file.
	RecipeFile string

	OS   string
	Arch string

	CacheDir     string
	DownloadsDir string
	PackagesDir  string

	// Force is carried on the evaluation context; download() does not
	// consult it and reuses a cached file either way.
	Force bool

	// WorkspaceOptions holds the effective per-package option values
	// (§6.1) keyed by flag name, consulted by flag_value().
	WorkspaceOptions map[string]string

	// Shared is the process-wide download cache and URL lock table.
	// When nil, NewContext supplies a fresh one for that evaluation.
	Shared *Shared
}

// Context is the per-evaluation state threaded through a recipe script.
// A fresh Context is built for every EvalFile/CallDiscovery call; nothing
// registered against one Context is visible from another (§4.5).
type Context struct {
	opts Options

	Packages []recipe.PackageEntry
	Managers []recipe.ManagerEntry
	Versions []recipe.Record
}

// NewContext constructs an empty evaluation context.
func NewContext(opts Options) *Context {
	if opts.Shared == nil {
		opts.Shared = NewShared()
	}
	return &Context{opts: opts}
}

func (c *Context) addPackage(entry recipe.PackageEntry) {
	c.Packages = append(c.Packages, entry)
}

func (c *Context) addManager(entry recipe.ManagerEntry) {
	c.Managers = append(c.Managers, entry)
}

func (c *Context) addVersion(rec recipe.Record) {
	c.Versions = append(c.Versions, rec)
}

func (c *Context) flagValue(name, def string) string {
	if v, ok := c.opts.WorkspaceOptions[name]; ok {
		return v
	}
	return def
}
