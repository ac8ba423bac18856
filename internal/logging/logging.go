package logging

import (
	"os"

	"github.com/charmbracelet/log"
)

// Options mirrors the root command's logging flags.
type Options struct {
	Quiet   bool
	Debug   bool
	Verbose bool
}

// Configure installs a charmbracelet/log logger on the default slog
// logger, honoring Options the same way the rest of the corpus wires its
// pretty-formatter handler: debug overrides quiet overrides the default
// info level. Verbose does not change the level.
func Configure(opts Options) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: opts.Debug,
		ReportCaller:    opts.Debug,
	})

	switch {
	case opts.Debug:
		logger.SetLevel(log.DebugLevel)
	case opts.Quiet:
		logger.SetLevel(log.WarnLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	log.SetDefault(logger)
	return logger
}

// StepFailure formats a pipeline step failure line per the
// "[repo/pkg=version] step failed: reason" convention.
func StepFailure(repo, pkg, version, step string, err error) string {
	return "[" + repo + "/" + pkg + "=" + version + "] " + step + " failed: " + err.Error()
}
