package versioncache

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/paths"
	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
)

// Cache resolves a package/manager's version list, memoizing in-process
// and on-disk (§4.7). One Cache is shared across a whole CLI invocation.
type Cache struct {
	shared *recipehost.Shared

	mu  sync.Mutex
	mem map[string][]recipe.Record
}

// New returns an empty Cache backed by shared (pass the same Shared
// instance used for repository syncs so downloads are memoized together).
func New(shared *recipehost.Shared) *Cache {
	return &Cache{shared: shared, mem: make(map[string][]recipe.Record)}
}

// Get returns the version list for pkgOrManager in repo, consulting
// memory, then disk, then resyncing via the recipe's discovery function
// (§4.7: "get(repo, full-name, pkg-or-manager) -> version list").
//
// pkgOrManager is either a plain package name, looked up in
// index.Packages, or "manager/sub-name", whose manager half is looked up
// in index.Managers and whose discovery function is invoked as
// discovery(manager, sub-name).
func (c *Cache) Get(repo string, index *recipe.Index, pkgOrManager string, force bool) ([]recipe.Record, error) {
	key := repo + "\x00" + pkgOrManager

	if !force {
		c.mu.Lock()
		if recs, ok := c.mem[key]; ok {
			c.mu.Unlock()
			return recs, nil
		}
		c.mu.Unlock()

		if recs, err := c.readDisk(repo, pkgOrManager); err == nil {
			c.store(key, recs)
			return recs, nil
		}
	}

	recs, err := c.resync(repo, index, pkgOrManager)
	if err != nil {
		return nil, err
	}
	c.store(key, recs)
	if err := c.writeDisk(repo, pkgOrManager, recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Cache) store(key string, recs []recipe.Record) {
	c.mu.Lock()
	c.mem[key] = recs
	c.mu.Unlock()
}

func (c *Cache) resync(repo string, index *recipe.Index, pkgOrManager string) ([]recipe.Record, error) {
	manager, sub, isManaged := strings.Cut(pkgOrManager, "/")

	var recipeFile, discoveryFunc string
	var args []string

	if isManaged {
		entry, ok := index.Managers[manager]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownEntry, "%s/%s", repo, pkgOrManager)
		}
		recipeFile, discoveryFunc = entry.RecipeFile, entry.DiscoveryFunc
		args = []string{manager, sub}
	} else {
		entry, ok := index.Packages[pkgOrManager]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownEntry, "%s/%s", repo, pkgOrManager)
		}
		recipeFile, discoveryFunc = entry.RecipeFile, entry.DiscoveryFunc
		args = []string{pkgOrManager}
	}

	ctx, err := recipehost.CallDiscoveryArgs(recipehost.Options{
		RecipeFile: recipeFile,
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Shared:     c.shared,
	}, discoveryFunc, args...)
	if err != nil {
		return nil, err
	}
	return ctx.Versions, nil
}

func (c *Cache) readDisk(repo, pkgOrManager string) ([]recipe.Record, error) {
	data, err := os.ReadFile(paths.VersionCacheFile(repo, pkgOrManager))
	if err != nil {
		return nil, err
	}
	var recs []recipe.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

func (c *Cache) writeDisk(repo, pkgOrManager string, recs []recipe.Record) error {
	if err := paths.EnsureDir(paths.Meta()); err != nil {
		return errors.Wrap(err, "ensure meta dir")
	}

	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal version cache")
	}

	dest := paths.VersionCacheFile(repo, pkgOrManager)
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, paths.DefaultFileMode); err != nil {
		return errors.Wrap(err, "write version cache")
	}
	return errors.Wrap(os.Rename(tmp, dest), "commit version cache")
}
