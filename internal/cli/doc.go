// Package cli parses command-line flags and dispatches to pi's
// subcommand tree: repo (repository registration and sync), package
// (version discovery and selector resolution), cave (workspace
// init/build/run), and disk (cache inspection and cleanup).
//
// The root command accepts the following flags, inherited by every
// subcommand:
//
//	-q, --quiet     Suppress informational output.
//	-v, --verbose   Accepted; does not change the log level.
//	-d, --debug     Enable debug output.
//
// Flags override build-time defaults set via linker flags. After parsing,
// the global logger is reconfigured to reflect the final level before the
// subcommand runs.
package cli
