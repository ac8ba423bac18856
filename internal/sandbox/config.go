package sandbox

// Mode controls whether the composition root is bound read-only or
// read-write inside the sandbox.
type Mode int

const (
	ReadOnly Mode = iota
	ReadWrite
)

// Dependency is a single build-dependency directory bound read-only into
// the sandbox. BinDir, when non-empty, names its bin/ subdirectory, which
// is placed on PATH after the composition and home tool directories and
// before the host system paths (§4.4).
type Dependency struct {
	Dir    string
	BinDir string
}

// Config describes everything the builder needs to assemble one sandboxed
// invocation (§4.4 "Inputs").
type Config struct {
	WorkspaceRoot    string // Bound read-write onto itself.
	HomeRoot         string // Workspace home directory, map-bound onto HostHome.
	HostHome         string // The invoker's host home path.
	CompositionRoot  string // Map-bound onto <HostHome>/.pilocal.
	CompositionMode  Mode
	PiCacheDir       string
	PiConfigDir      string
	RuntimeDir       string // XDG_RUNTIME_DIR, if the invoker has one.
	Dependencies     []Dependency
	PackagesDir      string // @PACKAGES_DIR substitution target.
	Env              map[string]string
	Set              map[string]string // Workspace overrides; applied last, win over Env.
	Workdir          string
	Command          []string // Argv executed inside the sandbox as given.
	HostHostname     string
	Workspace        string
	Variant          string
	Domain           string
}

// compositionSubdir is the fixed mount point for the composition root
// inside the sandbox's synthesized home (§4.4).
const compositionSubdir = ".pilocal"
