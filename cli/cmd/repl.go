package cmd

import (
	"context"

	"github.com/mhollis/cfgexpr/cli/cmd/repl"
	"github.com/mhollis/cfgexpr/log"
)

// Repl starts the interactive expression evaluator.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) error {
	return repl.Run(ctx, log.Default())
}
