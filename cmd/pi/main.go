package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/pilocal/pi/internal"
	"github.com/pilocal/pi/internal/cli"
)

// Entry point for the pi command-line tool.
//
// Parses flags, configures logging, and dispatches to the selected
// subcommand (repo, package, cave, disk, version).
func main() {
	log.Debug("build", "version", internal.VersionString())

	if err := cli.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
