package cli

import (
	"context"

	"github.com/charmbracelet/log"
)

// withLogger attaches the CLI logger to the context so library code can pick
// it up without threading a logger through every call.
func (c *CLI) withLogger(ctx context.Context) context.Context {
	return log.WithContext(ctx, c.Logger)
}
