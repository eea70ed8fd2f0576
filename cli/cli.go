package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/mhollis/cfgexpr/cli/cmd"
	"github.com/mhollis/cfgexpr/pkg"
)

// CLI is the top-level command-line interface for cfgexpr.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`

	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate expressions and name=expr bindings"`
	Process cmd.Process `cmd:""                    help:"Resolve a YAML document of configuration sections"`
	Repl    cmd.Repl    `cmd:""                    help:"Interactive expression evaluator"`
}

// Run executes the cfgexpr CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon
// completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact: true,
				Summary: true,
			}),
		kong.Vars{"version": pkg.Version},
		kong.BindTo(ctx, (*context.Context)(nil)),
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Finalize logger configuration with all parsed values, including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(ctx)

	defer cli.Pprof.start(ctx)()

	return ktx.Run(ctx)
}
