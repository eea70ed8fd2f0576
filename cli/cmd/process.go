package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/mhollis/cfgexpr/builder"
	"github.com/mhollis/cfgexpr/config"
	"github.com/mhollis/cfgexpr/lang"
	"github.com/mhollis/cfgexpr/log"
)

// Process resolves a YAML document of configuration sections and
// prints the nested result as YAML, one top-level key per section.
type Process struct {
	File      string   `arg:""                 default:"-"    help:"YAML input file or '-' for stdin" optional:""`
	Output    string   `default:"-"            help:"Output file or '-' for stdout"     short:"o"`
	StringKey []string `help:"Copy values of matching keys verbatim"                    name:"string-key"`
	CarryOver bool     `help:"Retain resolved names across sections"`
	Builders  bool     `default:"true"         help:"Assemble typed interim groups with the built-in builders" negatable:""`
}

// Run executes the process command.
func (p *Process) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) {
		cancel(*err)
	}(&err)

	in, err := openInput(p.File)
	if err != nil {
		return err
	}
	defer in.Close()

	sections, err := config.LoadYAML(in)
	if err != nil {
		return err
	}

	opts := []config.Option{
		config.WithStringKeys(p.StringKey...),
		config.WithCarryOver(p.CarryOver),
		config.WithLogger(log.Default()),
	}
	if p.Builders {
		opts = append(opts, config.WithBuilder(builder.NewFactory()))
	}

	proc := config.NewProcessor(opts...)

	result := make(yaml.MapSlice, 0, len(sections))

	for _, sec := range sections {
		out, err := proc.Process(sec)
		if err != nil {
			return lang.WrapError(err).
				With(slog.String("section", sec.Name))
		}

		result = append(result, yaml.MapItem{Key: sec.Name, Value: out})
	}

	rendered, err := yaml.Marshal(result)
	if err != nil {
		return lang.WrapError(err)
	}

	return writeOutput(p.Output, rendered)
}

func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)

		return err
	}

	return os.WriteFile(path, data, 0o644)
}
