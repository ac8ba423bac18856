package repoindex

import (
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/paths"
	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
)

// recipeExt is the file extension a repository directory walk treats as a
// recipe file.
const recipeExt = ".lua"

// Sync walks dir for recipe files, evaluates each one, and writes a fresh
// consolidated Index to the repository's metadata file, replacing
// whatever index previously existed for name (§4.6: "a sync is a full
// rebuild, never a merge").
func Sync(name, dir string, shared *recipehost.Shared) (*recipe.Index, error) {
	index := recipe.NewIndex()

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, recipeExt) {
			return nil
		}

		ctx, evalErr := recipehost.EvalFile(recipehost.Options{
			RecipeFile: path,
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			Shared:     shared,
		})
		if evalErr != nil {
			return errors.Wrapf(evalErr, "sync %s", path)
		}

		for _, pkg := range ctx.Packages {
			index.Packages[pkg.Name] = pkg
		}
		for _, mgr := range ctx.Managers {
			index.Managers[mgr.Name] = mgr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := writeIndex(name, index); err != nil {
		return nil, err
	}
	return index, nil
}

// Load returns the cached index for name, syncing first if the cache
// file is missing, unreadable, or force is set.
func Load(name, dir string, force bool, shared *recipehost.Shared) (*recipe.Index, error) {
	if !force {
		if index, err := readIndex(name); err == nil {
			return index, nil
		}
	}
	return Sync(name, dir, shared)
}

func readIndex(name string) (*recipe.Index, error) {
	data, err := os.ReadFile(paths.MetaFile(name))
	if err != nil {
		return nil, errors.Wrapf(ErrIndexNotFound, "%s", name)
	}
	var index recipe.Index
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, errors.Wrapf(ErrIndexNotFound, "%s: corrupt cache", name)
	}
	return &index, nil
}

func writeIndex(name string, index *recipe.Index) error {
	if err := paths.EnsureDir(paths.Meta()); err != nil {
		return errors.Wrap(err, "ensure meta dir")
	}

	data, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal repository index")
	}

	dest := paths.MetaFile(name)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, paths.DefaultFileMode); err != nil {
		return errors.Wrap(err, "write repository index")
	}
	return errors.Wrap(os.Rename(tmp, dest), "commit repository index")
}
