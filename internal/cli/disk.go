package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/paths"
)

// DiskCmd groups local-cache inspection and cleanup subcommands.
type DiskCmd struct {
	Info      DiskInfoCmd      `cmd:"" help:"Show cache directory sizes."`
	Clean     DiskCleanCmd     `cmd:"" help:"Remove downloaded archives and extracted packages."`
	Uninstall DiskUninstallCmd `cmd:"" help:"Remove all pi state: cache and configuration."`
}

// DiskInfoCmd is "pi disk info".
type DiskInfoCmd struct{}

func (c *DiskInfoCmd) Run(ctx context.Context) error {
	for label, dir := range map[string]string{
		"downloads": paths.Downloads(),
		"packages":  paths.Packages(),
		"builds":    paths.Builds(),
		"meta":      paths.Meta(),
	} {
		size, err := dirSize(dir)
		if err != nil && !os.IsNotExist(err) {
			return err
		}
		fmt.Printf("%s\t%s\t%d bytes\n", label, dir, size)
	}
	return nil
}

func dirSize(dir string) (int64, error) {
	var total int64
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		total += info.Size()
		return nil
	})
	return total, err
}

// DiskCleanCmd is "pi disk clean". It removes downloaded archives and
// extracted package directories, but leaves the build-outcome and
// version-metadata caches intact (those are small and cheap to keep).
type DiskCleanCmd struct{}

func (c *DiskCleanCmd) Run(ctx context.Context) error {
	if err := refuseInsideWorkspace(); err != nil {
		return err
	}
	for _, dir := range []string{paths.Downloads(), paths.Packages()} {
		if err := os.RemoveAll(dir); err != nil {
			return errors.Wrapf(err, "clean %s", dir)
		}
	}
	return nil
}

// DiskUninstallCmd is "pi disk uninstall --yes". It removes every piece
// of pi's on-disk state: the cache root and the configuration root
// (including the repository registry).
type DiskUninstallCmd struct {
	Yes bool `help:"Confirm the destructive removal."`
}

func (c *DiskUninstallCmd) Run(ctx context.Context) error {
	if err := refuseInsideWorkspace(); err != nil {
		return err
	}
	if !c.Yes {
		return errors.New("pass --yes to confirm removing all pi state")
	}
	if err := os.RemoveAll(paths.CacheRoot()); err != nil {
		return errors.Wrap(err, "remove cache root")
	}
	if err := os.RemoveAll(paths.ConfigRoot()); err != nil {
		return errors.Wrap(err, "remove config root")
	}
	return nil
}
