package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/recipe"
)

// Options configures a Materialize call for a single package.
type Options struct {
	CompositionRoot string
	PackagesDir     string
	SourceRoot      string
	Exports         []recipe.Export

	// Env accumulates Env exports across every package materialized into
	// the same composition root; the caller owns the map's lifetime.
	Env map[string]string
}

// Materialize applies every export in opts.Exports.
func Materialize(opts Options) error {
	for _, exp := range opts.Exports {
		switch exp.Kind {
		case recipe.ExportLink:
			if err := materializeLink(opts, exp); err != nil {
				return err
			}
		case recipe.ExportEnv:
			if opts.Env != nil {
				opts.Env[exp.Key] = resolvePath(opts, exp.Val)
			}
		case recipe.ExportPath:
			dir := filepath.Join(opts.CompositionRoot, exp.Rel)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return errors.Wrapf(err, "export path %s", exp.Rel)
			}
		}
	}
	return nil
}

func materializeLink(opts Options, exp recipe.Export) error {
	src := resolvePath(opts, exp.Src)

	if strings.Contains(src, "*") {
		return materializeGlobLink(opts, src, exp.Dest)
	}

	dest := filepath.Join(opts.CompositionRoot, exp.Dest)
	dest = appendBaseIfDir(dest, exp.Dest, src)
	return symlinkReplacing(src, dest)
}

// appendBaseIfDir implements §4.11's directory-destination rule: when a
// non-glob Link export's dest names (or already is) a directory rather
// than a file path, the symlink is placed inside it under src's own
// basename instead of replacing the directory itself.
func appendBaseIfDir(dest, rawDest, src string) string {
	if strings.HasSuffix(rawDest, "/") {
		return filepath.Join(dest, filepath.Base(src))
	}
	if info, err := os.Stat(dest); err == nil && info.IsDir() {
		return filepath.Join(dest, filepath.Base(src))
	}
	return dest
}

// materializeGlobLink implements the "one-level prefix-glob" form: every
// match of a single "*" segment is linked individually into dest, treated
// as a directory prefix.
func materializeGlobLink(opts Options, srcPattern, dest string) error {
	matches, err := filepath.Glob(srcPattern)
	if err != nil {
		return errors.Wrapf(err, "export link glob %s", srcPattern)
	}
	if len(matches) == 0 {
		return errors.Wrapf(ErrNoGlobMatch, "%s", srcPattern)
	}

	destDir := filepath.Join(opts.CompositionRoot, dest)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return errors.Wrapf(err, "export link destination %s", dest)
	}

	for _, m := range matches {
		target := filepath.Join(destDir, filepath.Base(m))
		if err := symlinkReplacing(m, target); err != nil {
			return err
		}
	}
	return nil
}

// symlinkReplacing removes any existing file/symlink at dest, ensures its
// parent directory exists, then symlinks src at dest. Link is
// symlink-only: there is no copy fallback.
func symlinkReplacing(src, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return errors.Wrapf(err, "export link parent of %s", dest)
	}
	if _, err := os.Lstat(dest); err == nil {
		if err := os.Remove(dest); err != nil {
			return errors.Wrapf(err, "remove existing export at %s", dest)
		}
	}
	return errors.Wrapf(os.Symlink(src, dest), "symlink %s -> %s", dest, src)
}

// resolvePath substitutes a leading "@PACKAGES_DIR" with opts.PackagesDir;
// anything else is resolved relative to the package's build output.
func resolvePath(opts Options, p string) string {
	if strings.HasPrefix(p, "@PACKAGES_DIR") {
		return strings.Replace(p, "@PACKAGES_DIR", opts.PackagesDir, 1)
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(opts.SourceRoot, p)
}
