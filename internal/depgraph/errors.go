package depgraph

import (
	"errors"
	"strings"
)

var ErrUnknownRepo = errors.New("unknown repository")

// CircularDependencyError reports a build-dependency cycle, carrying the
// chain of node keys from the point the cycle closes back to itself.
type CircularDependencyError struct {
	Nodes []string
}

func (e *CircularDependencyError) Error() string {
	return "circular build dependency: " + strings.Join(e.Nodes, " -> ")
}
