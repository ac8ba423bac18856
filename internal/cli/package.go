package cli

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
	"github.com/pilocal/pi/internal/repoindex"
	"github.com/pilocal/pi/internal/selector"
	"github.com/pilocal/pi/internal/versioncache"
)

// PackageCmd groups package-inspection subcommands.
type PackageCmd struct {
	Sync    PackageSyncCmd    `cmd:"" help:"Force a version-cache resync for one package."`
	List    PackageListCmd    `cmd:"" help:"List packages and managers known to a repository."`
	Info    PackageInfoCmd    `cmd:"" help:"Show a package's known versions."`
	Resolve PackageResolveCmd `cmd:"" help:"Resolve a selector to a concrete version, without building."`
}

var ErrNoRepoRegistered = errors.New("no repository registered; pass repo/ in the selector or run 'pi repo add' first")
var ErrAmbiguousRepo = errors.New("selector has no repo/ prefix and more than one repository is registered")

// resolveRepo determines which registered repository a bare (repo-less)
// selector should target: its own Repo if set, or the sole registered
// repository, or an error if that is ambiguous.
func resolveRepo(sel selector.Selector, reg *repoindex.Registry) (string, error) {
	if sel.Repo != "" {
		return sel.Repo, nil
	}
	names := reg.Names()
	switch len(names) {
	case 0:
		return "", ErrNoRepoRegistered
	case 1:
		return names[0], nil
	default:
		return "", ErrAmbiguousRepo
	}
}

// PackageSyncCmd is "pi package sync <selector>".
type PackageSyncCmd struct {
	Selector string `arg:"" help:"Package or manager/sub-name selector."`
}

func (c *PackageSyncCmd) Run(ctx context.Context) error {
	sel, err := selector.Parse(c.Selector)
	if err != nil {
		return err
	}
	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}
	repo, err := resolveRepo(sel, reg)
	if err != nil {
		return err
	}
	dir, err := reg.Dir(repo)
	if err != nil {
		return err
	}

	shared := recipehost.NewShared()
	index, err := repoindex.Load(repo, dir, true, shared)
	if err != nil {
		return err
	}

	cache := versioncache.New(shared)
	recs, err := cache.Get(repo, index, sel.Key(), true)
	if err != nil {
		return err
	}
	fmt.Printf("%s/%s: %d versions\n", repo, sel.Key(), len(recs))
	return nil
}

// PackageListCmd is "pi package list <repo>".
type PackageListCmd struct {
	Repo string `arg:"" help:"Repository name."`
}

func (c *PackageListCmd) Run(ctx context.Context) error {
	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}
	dir, err := reg.Dir(c.Repo)
	if err != nil {
		return err
	}

	index, err := repoindex.Load(c.Repo, dir, false, nil)
	if err != nil {
		return err
	}
	for name := range index.Packages {
		fmt.Printf("package\t%s\n", name)
	}
	for name := range index.Managers {
		fmt.Printf("manager\t%s\n", name)
	}
	return nil
}

// PackageInfoCmd is "pi package info <selector>".
type PackageInfoCmd struct {
	Selector string `arg:"" help:"Package or manager/sub-name selector."`
}

func (c *PackageInfoCmd) Run(ctx context.Context) error {
	sel, err := selector.Parse(c.Selector)
	if err != nil {
		return err
	}
	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}
	repo, err := resolveRepo(sel, reg)
	if err != nil {
		return err
	}
	dir, err := reg.Dir(repo)
	if err != nil {
		return err
	}

	shared := recipehost.NewShared()
	index, err := repoindex.Load(repo, dir, false, shared)
	if err != nil {
		return err
	}

	cache := versioncache.New(shared)
	recs, err := cache.Get(repo, index, sel.Key(), false)
	if err != nil {
		return err
	}
	printVersions(sel, recs)
	return nil
}

func printVersions(sel selector.Selector, recs []recipe.Record) {
	fmt.Printf("%s:\n", sel.Key())
	for _, r := range recs {
		fmt.Printf("  %s\t%s\t%s\n", r.Version, r.ReleaseType, r.ReleaseDate)
	}
}

// PackageResolveCmd is "pi package resolve <selector>": resolves the
// selector to exactly one concrete version and prints its pipeline shape,
// without running it.
type PackageResolveCmd struct {
	Selector string `arg:"" help:"Package selector, optionally with =version."`
}

func (c *PackageResolveCmd) Run(ctx context.Context) error {
	sel, err := selector.Parse(c.Selector)
	if err != nil {
		return err
	}
	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}
	repo, err := resolveRepo(sel, reg)
	if err != nil {
		return err
	}
	dir, err := reg.Dir(repo)
	if err != nil {
		return err
	}

	shared := recipehost.NewShared()
	index, err := repoindex.Load(repo, dir, false, shared)
	if err != nil {
		return err
	}
	cache := versioncache.New(shared)
	recs, err := cache.Get(repo, index, sel.Key(), false)
	if err != nil {
		return err
	}

	chosen, err := selector.Resolve(recs, sel.VersionClause)
	if err != nil {
		return err
	}

	fmt.Printf("%s/%s=%s (%s)\n", repo, chosen.PkgName, chosen.Version, chosen.ReleaseType)
	for i, step := range chosen.Pipeline {
		fmt.Printf("  %d. %s %s\n", i, step.Kind, step.Label())
	}
	return nil
}
