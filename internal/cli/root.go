package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/pilocal/pi/internal"
	"github.com/pilocal/pi/internal/logging"
)

// RootCmd is the top-level command tree.
var RootCmd struct {
	Quiet   bool `short:"q" help:"Suppress informational output."`
	Verbose bool `short:"v" help:"Accepted; does not change the log level."`
	Debug   bool `short:"d" help:"Enable debug output."`

	Repo    RepoCmd    `cmd:"" help:"Manage configured recipe repositories."`
	Package PackageCmd `cmd:"" help:"Inspect and resolve recipe packages."`
	Cave    CaveCmd    `cmd:"" help:"Manage the current workspace."`
	Disk    DiskCmd    `cmd:"" help:"Inspect and clean the local cache."`
	Devel   DevelCmd   `cmd:"" help:"Recipe-authoring helpers."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// Execute parses arguments, configures logging, and runs the selected
// subcommand.
func Execute() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	kongCtx := kong.Parse(&RootCmd,
		kong.Name(internal.Name),
		kong.Description("Reproducible, per-workspace package builder."),
		kong.UsageOnError(),
		kong.Vars{
			"version": internal.VersionString(),
		},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)

	configureLogger()

	return kongCtx.Run()
}

func configureLogger() {
	logging.Configure(logging.Options{
		Quiet:   RootCmd.Quiet || internal.IsQuiet(),
		Debug:   RootCmd.Debug || internal.IsDebug(),
		Verbose: RootCmd.Verbose || internal.IsVerbose(),
	})
}
