package depgraph

import (
	"runtime"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
	"github.com/pilocal/pi/internal/repoindex"
	"github.com/pilocal/pi/internal/selector"
	"github.com/pilocal/pi/internal/versioncache"
)

// Node is one resolved package in the build plan.
type Node struct {
	Repo   string
	Record recipe.Record
}

// Key identifies a node for caching and cycle detection, independent of
// the version that was eventually chosen for it.
func (n Node) Key() string { return n.Repo + "/" + n.Record.PkgName }

// Options configures a Resolve call.
type Options struct {
	Registry *repoindex.Registry
	Indexes  map[string]*recipe.Index // repo name -> loaded index
	Versions *versioncache.Cache
	Shared   *recipehost.Shared

	// WorkspaceOptions maps a package name to its effective option set
	// (§6.1), consulted by flag_value() during re-evaluation.
	WorkspaceOptions map[string]map[string]string

	// DefaultRepo is used for selectors that don't name a repository.
	DefaultRepo string
}

// resolver carries the mutable state of one Resolve call: the visited
// sets for cycle detection and the accumulated post-order build plan.
type resolver struct {
	opts Options

	order   []Node
	visited map[string]bool // fully resolved
	onStack map[string]bool // currently being resolved (cycle marker)
	stack   []string
}

// Resolve walks root's build dependencies depth-first and returns the
// topological build order (dependencies before dependents).
func Resolve(opts Options, root selector.Selector) ([]Node, error) {
	r := &resolver{
		opts:    opts,
		visited: make(map[string]bool),
		onStack: make(map[string]bool),
	}
	node, err := r.visit(root)
	if err != nil {
		return nil, err
	}
	if !r.visited[node.Key()] {
		r.visited[node.Key()] = true
		r.order = append(r.order, node)
	}
	return r.order, nil
}

func (r *resolver) visit(sel selector.Selector) (Node, error) {
	repo := sel.Repo
	if repo == "" {
		repo = r.opts.DefaultRepo
	}

	key := repo + "/" + sel.Key()
	if r.onStack[key] {
		return Node{}, &CircularDependencyError{Nodes: append(append([]string{}, r.stack...), key)}
	}

	index, ok := r.opts.Indexes[repo]
	if !ok {
		return Node{}, errors.Wrapf(ErrUnknownRepo, "%s", repo)
	}

	records, err := r.opts.Versions.Get(repo, index, sel.Key(), false)
	if err != nil {
		return Node{}, err
	}
	chosen, err := selector.Resolve(records, sel.VersionClause)
	if err != nil {
		return Node{}, err
	}

	r.onStack[key] = true
	r.stack = append(r.stack, key)
	defer func() {
		delete(r.onStack, key)
		r.stack = r.stack[:len(r.stack)-1]
	}()

	concrete, err := r.reevaluate(index, sel, chosen)
	if err != nil {
		return Node{}, err
	}

	for _, dep := range concrete.BuildDeps {
		depSel, parseErr := selector.Parse(dep.Selector)
		if parseErr != nil {
			if dep.Optional {
				continue
			}
			return Node{}, parseErr
		}

		node, visitErr := r.visit(depSel)
		if visitErr != nil {
			if dep.Optional {
				continue
			}
			return Node{}, visitErr
		}
		if !r.visited[node.Key()] {
			r.visited[node.Key()] = true
			r.order = append(r.order, node)
		}
	}

	result := Node{Repo: repo, Record: concrete}
	return result, nil
}

// reevaluate re-invokes the package's discovery function with the
// dependent workspace's effective options, so flag_value() reflects the
// caller's configuration rather than whatever was cached by the last
// unrelated lookup (§4.9, §6.4).
func (r *resolver) reevaluate(index *recipe.Index, sel selector.Selector, chosen recipe.Record) (recipe.Record, error) {
	var recipeFile, discoveryFunc string
	var args []string

	if sel.Prefix != "" {
		entry, ok := index.Managers[sel.Prefix]
		if !ok {
			return recipe.Record{}, errors.Wrapf(ErrUnknownRepo, "manager %s", sel.Prefix)
		}
		recipeFile, discoveryFunc = entry.RecipeFile, entry.DiscoveryFunc
		args = []string{sel.Prefix, sel.Name}
	} else {
		entry, ok := index.Packages[sel.Name]
		if !ok {
			return recipe.Record{}, errors.Wrapf(ErrUnknownRepo, "package %s", sel.Name)
		}
		recipeFile, discoveryFunc = entry.RecipeFile, entry.DiscoveryFunc
		args = []string{sel.Name}
	}

	ctx, err := recipehost.CallDiscoveryArgs(recipehost.Options{
		RecipeFile:       recipeFile,
		OS:               runtime.GOOS,
		Arch:             runtime.GOARCH,
		Shared:           r.opts.Shared,
		WorkspaceOptions: r.opts.WorkspaceOptions[sel.Name],
	}, discoveryFunc, args...)
	if err != nil {
		return recipe.Record{}, err
	}

	for _, rec := range ctx.Versions {
		if rec.Version == chosen.Version {
			return rec, nil
		}
	}
	if len(ctx.Versions) > 0 {
		return ctx.Versions[0], nil
	}
	return chosen, nil
}
