package cli

import (
	"context"
	"fmt"

	"github.com/pilocal/pi/internal"
)

// VersionCmd is "pi version".
type VersionCmd struct{}

func (c *VersionCmd) Run(ctx context.Context) error {
	fmt.Println(internal.VersionString())
	return nil
}
