package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/depgraph"
	"github.com/pilocal/pi/internal/export"
	"github.com/pilocal/pi/internal/paths"
	"github.com/pilocal/pi/internal/pipeline"
	"github.com/pilocal/pi/internal/recipe"
	"github.com/pilocal/pi/internal/recipehost"
	"github.com/pilocal/pi/internal/repoindex"
	"github.com/pilocal/pi/internal/sandbox"
	"github.com/pilocal/pi/internal/selector"
	"github.com/pilocal/pi/internal/store"
	"github.com/pilocal/pi/internal/versioncache"
	"github.com/pilocal/pi/internal/workspace"
)

// CaveCmd groups workspace subcommands.
type CaveCmd struct {
	Init    CaveInitCmd    `cmd:"" help:"Create a workspace descriptor in the current directory."`
	Info    CaveInfoCmd    `cmd:"" help:"Show the workspace's effective configuration."`
	Add     CaveAddCmd     `cmd:"" help:"Add a package selector to the workspace."`
	Rem     CaveRemCmd     `cmd:"" help:"Remove a package selector from the workspace."`
	Resolve CaveResolveCmd `cmd:"" help:"Print the workspace's resolved build order."`
	Build   CaveBuildCmd   `cmd:"" help:"Build every package declared by the workspace."`
	Run     CaveRunCmd     `cmd:"" help:"Run a command inside the workspace's sandbox."`
}

// CaveInitCmd is "pi cave init [name]".
type CaveInitCmd struct {
	Name string `arg:"" optional:"" help:"Workspace name; defaults to the directory name."`
}

func (c *CaveInitCmd) Run(ctx context.Context) error {
	dir, err := os.Getwd()
	if err != nil {
		return err
	}
	if _, err := workspace.Find(dir); err == nil {
		return errors.New("a workspace descriptor already governs this directory")
	}

	name := c.Name
	if name == "" {
		name = filepath.Base(dir)
	}

	path := filepath.Join(dir, workspace.DescriptorFile)
	return workspace.Save(path, &workspace.Descriptor{Name: name})
}

// CaveInfoCmd is "pi cave info [variant]".
type CaveInfoCmd struct {
	Variant string `arg:"" optional:"" help:"Variant to report."`
}

func (c *CaveInfoCmd) Run(ctx context.Context) error {
	path, d, err := loadCave()
	if err != nil {
		return err
	}
	eff, err := d.Effective(c.Variant)
	if err != nil {
		return err
	}
	fmt.Printf("workspace: %s (%s)\n", eff.Name, path)
	fmt.Println("packages:")
	for _, p := range eff.Packages {
		fmt.Printf("  %s\n", p)
	}
	return nil
}

// CaveAddCmd is "pi cave add <selector>".
type CaveAddCmd struct {
	Selector string `arg:"" help:"Package selector to add."`
}

func (c *CaveAddCmd) Run(ctx context.Context) error {
	path, d, err := loadCave()
	if err != nil {
		return err
	}
	for _, p := range d.Packages {
		if p == c.Selector {
			return nil
		}
	}
	d.Packages = append(d.Packages, c.Selector)
	return workspace.Save(path, d)
}

// CaveRemCmd is "pi cave rem <selector>".
type CaveRemCmd struct {
	Selector string `arg:"" help:"Package selector to remove."`
}

func (c *CaveRemCmd) Run(ctx context.Context) error {
	path, d, err := loadCave()
	if err != nil {
		return err
	}
	out := d.Packages[:0]
	for _, p := range d.Packages {
		if p != c.Selector {
			out = append(out, p)
		}
	}
	d.Packages = out
	return workspace.Save(path, d)
}

// CaveResolveCmd is "pi cave resolve [variant]".
type CaveResolveCmd struct {
	Variant string `arg:"" optional:"" help:"Variant to resolve."`
}

func (c *CaveResolveCmd) Run(ctx context.Context) error {
	plan, _, err := resolveCave(c.Variant)
	if err != nil {
		return err
	}
	for _, node := range plan {
		fmt.Printf("%s/%s=%s\n", node.Repo, node.Record.PkgName, node.Record.Version)
	}
	return nil
}

// CaveBuildCmd is "pi cave build [variant]".
type CaveBuildCmd struct {
	Variant string `arg:"" optional:"" help:"Variant to build."`
	Force   bool   `help:"Ignore every cached step outcome and rebuild from scratch."`
}

func (c *CaveBuildCmd) Run(ctx context.Context) error {
	plan, caveDir, err := resolveCave(c.Variant)
	if err != nil {
		return err
	}

	st := store.New()
	compositionRoot := compositionRoot(caveDir, c.Variant)
	env := make(map[string]string)

	for _, node := range plan {
		log.Infof("building %s/%s=%s", node.Repo, node.Record.PkgName, node.Record.Version)

		result, err := pipeline.Run(ctx, pipeline.Options{
			Repo:        node.Repo,
			Record:      node.Record,
			Store:       st,
			Force:       c.Force,
			PackagesDir: paths.Packages(),
		})
		if err != nil {
			return errors.Wrapf(err, "%s/%s=%s", node.Repo, node.Record.PkgName, node.Record.Version)
		}

		if err := export.Materialize(export.Options{
			CompositionRoot: compositionRoot,
			PackagesDir:     paths.Packages(),
			SourceRoot:      result.SourceRoot,
			Exports:         result.Exports,
			Env:             env,
		}); err != nil {
			return errors.Wrapf(err, "export %s/%s", node.Repo, node.Record.PkgName)
		}
	}

	log.Infof("build complete: %d packages exported to %s", len(plan), compositionRoot)
	return nil
}

// CaveRunCmd is "pi cave run [--variant <name>] -- <command...>".
type CaveRunCmd struct {
	Variant string   `help:"Variant whose composition to run against."`
	Command []string `arg:"" passthrough:"" help:"Command to execute inside the sandbox."`
}

func (c *CaveRunCmd) Run(ctx context.Context) error {
	caveDir, err := os.Getwd()
	if err != nil {
		return err
	}
	if path, err := workspace.Find(caveDir); err == nil {
		caveDir = filepath.Dir(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = caveDir
	}

	cfg := sandbox.Config{
		WorkspaceRoot:   caveDir,
		HomeRoot:        filepath.Join(caveDir, ".pi", "home"),
		HostHome:        home,
		CompositionRoot: compositionRoot(caveDir, c.Variant),
		PiCacheDir:      paths.CacheRoot(),
		PiConfigDir:     paths.ConfigRoot(),
		PackagesDir:     paths.Packages(),
		Workdir:         caveDir,
		Command:         c.Command,
		Workspace:       filepath.Base(caveDir),
		Variant:         c.Variant,
	}
	if err := paths.EnsureDir(cfg.HomeRoot); err != nil {
		return err
	}

	var stdout, stderr strings.Builder
	code, err := sandbox.Run(ctx, cfg, &stdout, &stderr)
	if err != nil {
		return err
	}
	fmt.Print(stdout.String())
	fmt.Fprint(os.Stderr, stderr.String())
	if code != 0 {
		return errors.Errorf("command exited with status %d", code)
	}
	return nil
}

func loadCave() (string, *workspace.Descriptor, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", nil, err
	}
	path, err := workspace.Find(dir)
	if err != nil {
		return "", nil, err
	}
	d, err := workspace.Load(path)
	if err != nil {
		return "", nil, err
	}
	return path, d, nil
}

func compositionRoot(caveDir, variant string) string {
	if variant == "" {
		return filepath.Join(caveDir, ".pi", "composition")
	}
	return filepath.Join(caveDir, ".pi", "composition-"+variant)
}

// resolveCave loads the current directory's cave descriptor and resolves
// its declared packages (and their transitive build dependencies) into a
// single topologically ordered build plan.
func resolveCave(variant string) ([]depgraph.Node, string, error) {
	path, d, err := loadCave()
	if err != nil {
		return nil, "", err
	}
	caveDir := filepath.Dir(path)

	eff, err := d.Effective(variant)
	if err != nil {
		return nil, "", err
	}

	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return nil, "", err
	}

	shared := recipehost.NewShared()
	versions := versioncache.New(shared)
	indexes := make(map[string]*recipe.Index)

	var plan []depgraph.Node
	seen := make(map[string]bool)

	for _, raw := range eff.Packages {
		sel, err := selector.Parse(raw)
		if err != nil {
			return nil, "", err
		}
		repo, err := resolveRepo(sel, reg)
		if err != nil {
			return nil, "", err
		}
		if _, ok := indexes[repo]; !ok {
			dir, err := reg.Dir(repo)
			if err != nil {
				return nil, "", err
			}
			index, err := repoindex.Load(repo, dir, false, shared)
			if err != nil {
				return nil, "", err
			}
			indexes[repo] = index
		}

		depOpts := depgraph.Options{
			Indexes:          indexes,
			Versions:         versions,
			Shared:           shared,
			WorkspaceOptions: eff.Options,
			DefaultRepo:      repo,
		}
		nodes, err := depgraph.Resolve(depOpts, sel)
		if err != nil {
			return nil, "", err
		}
		for _, n := range nodes {
			if !seen[n.Key()] {
				seen[n.Key()] = true
				plan = append(plan, n)
			}
		}
	}

	return plan, caveDir, nil
}
