package cli

import (
	"os"

	"github.com/pkg/errors"

	"github.com/pilocal/pi/internal/workspace"
)

// ErrInsideWorkspace is returned by a command that refuses to run while
// the current directory is inside a cave (§9: repository and disk
// commands operate on global state and must not be confused with
// per-workspace configuration by running from inside one).
var ErrInsideWorkspace = errors.New("refusing to run: current directory is inside a workspace")

// refuseInsideWorkspace errors out if the current directory (or an
// ancestor) holds a workspace descriptor.
func refuseInsideWorkspace() error {
	dir, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "get working directory")
	}
	if _, err := workspace.Find(dir); err == nil {
		return ErrInsideWorkspace
	}
	return nil
}
