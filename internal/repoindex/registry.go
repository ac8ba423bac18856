package repoindex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/paths"
)

// Registry is the persisted name -> local-directory mapping configured
// via "repo add" (§6.3 repositories.json).
type Registry struct {
	Repos map[string]string `json:"repos"`
}

// LoadRegistry reads the registry file, returning an empty Registry if it
// does not exist yet.
func LoadRegistry() (*Registry, error) {
	data, err := os.ReadFile(paths.RepositoriesFile())
	if os.IsNotExist(err) {
		return &Registry{Repos: make(map[string]string)}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read repository registry")
	}

	var reg Registry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, errors.Wrap(err, "parse repository registry")
	}
	if reg.Repos == nil {
		reg.Repos = make(map[string]string)
	}
	return &reg, nil
}

// Save atomically rewrites the registry file (temp file + rename, same
// pattern as package store).
func (r *Registry) Save() error {
	if err := paths.EnsureDir(paths.ConfigRoot()); err != nil {
		return errors.Wrap(err, "ensure config root")
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal repository registry")
	}

	dest := paths.RepositoriesFile()
	tmp := dest + ".tmp"
	if err := os.WriteFile(tmp, data, paths.DefaultFileMode); err != nil {
		return errors.Wrap(err, "write repository registry")
	}
	if err := os.Rename(tmp, dest); err != nil {
		return errors.Wrap(err, "commit repository registry")
	}
	return nil
}

// Add registers name -> dir, rejecting a name already in use.
func (r *Registry) Add(name, dir string) error {
	if _, exists := r.Repos[name]; exists {
		return errors.Wrapf(ErrRepoExists, "%s", name)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return errors.Wrap(err, "resolve repository path")
	}
	r.Repos[name] = abs
	return nil
}

// Remove drops a repository from the registry.
func (r *Registry) Remove(name string) error {
	if _, exists := r.Repos[name]; !exists {
		return errors.Wrapf(ErrRepoNotFound, "%s", name)
	}
	delete(r.Repos, name)
	return nil
}

// Dir returns the local directory registered for name.
func (r *Registry) Dir(name string) (string, error) {
	dir, ok := r.Repos[name]
	if !ok {
		return "", errors.Wrapf(ErrRepoNotFound, "%s", name)
	}
	return dir, nil
}

// Names returns every registered repository name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Repos))
	for name := range r.Repos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
