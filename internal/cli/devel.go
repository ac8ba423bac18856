package cli

import (
	"context"
	"fmt"

	"github.com/pilocal/pi/internal/devel"
)

// DevelCmd groups recipe-authoring helpers that operate on a single
// recipe file, outside any cave.
type DevelCmd struct {
	Test DevelTestCmd `cmd:"" help:"Build a recipe's packages and run their verify expectations."`
}

// DevelTestCmd is "pi devel test <recipe-file> [package]".
type DevelTestCmd struct {
	RecipeFile string `arg:"" help:"Recipe file to evaluate." type:"existingfile"`
	Package    string `arg:"" optional:"" help:"Package name to test; tests every registered package if omitted."`
	Force      bool   `help:"Ignore every cached step outcome and rebuild from scratch."`
}

func (c *DevelTestCmd) Run(ctx context.Context) error {
	results, err := devel.Test(ctx, devel.Options{
		RecipeFile:  c.RecipeFile,
		PackageName: c.Package,
		Force:       c.Force,
	})
	if err != nil {
		return err
	}

	for _, r := range results {
		status := "built"
		if r.Verified {
			status = "verified"
		}
		fmt.Printf("%s=%s: %s\n", r.PackageName, r.Version, status)
	}
	return nil
}
