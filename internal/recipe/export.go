package recipe

// ExportKind discriminates the three export forms a version record can
// declare (§3, §4.11).
type ExportKind string

const (
	ExportLink ExportKind = "link"
	ExportEnv  ExportKind = "env"
	ExportPath ExportKind = "path"
)

// Export is one entry in a version record's exports list. Link symlinks
// src into the composition root at dest; Env contributes an environment
// variable; Path creates an empty directory under the composition root.
type Export struct {
	Kind ExportKind `json:"kind"`

	// Link fields.
	Src  string `json:"src,omitempty"`
	Dest string `json:"dest,omitempty"`

	// Env fields.
	Key string `json:"key,omitempty"`
	Val string `json:"val,omitempty"`

	// Path field (relative to the composition root).
	Rel string `json:"rel,omitempty"`
}

// Link constructs a Link export.
func Link(src, dest string) Export { return Export{Kind: ExportLink, Src: src, Dest: dest} }

// Env constructs an Env export.
func Env(key, val string) Export { return Export{Kind: ExportEnv, Key: key, Val: val} }

// Path constructs a Path export.
func Path(rel string) Export { return Export{Kind: ExportPath, Rel: rel} }
