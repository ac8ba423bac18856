package cli

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/pilocal/pi/internal/recipehost"
	"github.com/pilocal/pi/internal/repoindex"
)

// RepoCmd groups repository registry subcommands.
type RepoCmd struct {
	Add  RepoAddCmd  `cmd:"" help:"Register a local recipe repository."`
	Sync RepoSyncCmd `cmd:"" help:"Re-index a repository's recipe files."`
	List RepoListCmd `cmd:"" help:"List registered repositories."`
}

// RepoAddCmd is "pi repo add <name> <path>".
type RepoAddCmd struct {
	Name string `arg:"" help:"Name to register the repository under."`
	Path string `arg:"" help:"Local directory holding recipe files." type:"existingdir"`
}

func (c *RepoAddCmd) Run(ctx context.Context) error {
	if err := refuseInsideWorkspace(); err != nil {
		return err
	}

	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}
	if err := reg.Add(c.Name, c.Path); err != nil {
		return err
	}
	if err := reg.Save(); err != nil {
		return err
	}

	log.Infof("registered repository %s -> %s", c.Name, c.Path)
	return nil
}

// RepoSyncCmd is "pi repo sync [<name>]". An empty name syncs every
// registered repository.
type RepoSyncCmd struct {
	Name string `arg:"" optional:"" help:"Repository to sync; syncs all if omitted."`
}

func (c *RepoSyncCmd) Run(ctx context.Context) error {
	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}

	names := reg.Names()
	if c.Name != "" {
		names = []string{c.Name}
	}

	shared := recipehost.NewShared()
	var logMu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		eg.Go(func() error {
			dir, err := reg.Dir(name)
			if err != nil {
				return err
			}
			index, err := repoindex.Sync(name, dir, shared)
			if err != nil {
				return err
			}

			select {
			case <-egCtx.Done():
				return egCtx.Err()
			default:
			}

			logMu.Lock()
			log.Infof("synced %s: %d packages, %d managers", name, len(index.Packages), len(index.Managers))
			logMu.Unlock()
			return nil
		})
	}
	return eg.Wait()
}

// RepoListCmd is "pi repo list".
type RepoListCmd struct{}

func (c *RepoListCmd) Run(ctx context.Context) error {
	reg, err := repoindex.LoadRegistry()
	if err != nil {
		return err
	}
	for _, name := range reg.Names() {
		dir, _ := reg.Dir(name)
		fmt.Printf("%s\t%s\n", name, dir)
	}
	return nil
}
