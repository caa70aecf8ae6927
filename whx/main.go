package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/wheelhouse/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// completion describes the command tree for shell completion. It must run
// before flag parsing.
func completion() {
	windows := predict.Set{"all", "ytd", "365d", "182d", "90d", "30d", "7d"}
	whx := &complete.Command{
		Flags: map[string]complete.Predictor{
			"ledger": predict.Files("*.jsonl"),
		},
		Sub: map[string]*complete.Command{
			"import": {
				Args: predict.Files("*.csv"),
				Flags: map[string]complete.Predictor{
					"format": predict.Set{"csv", "json"},
				},
			},
			"fmt": {},
			"summary": {
				Flags: map[string]complete.Predictor{
					"on":                predict.Nothing,
					"window":            windows,
					"lifetime":          predict.Nothing,
					"exclude":           predict.Nothing,
					"exclude-zero-cost": predict.Nothing,
				},
			},
			"windows": {},
			"daily": {
				Flags: map[string]complete.Predictor{"window": windows},
			},
			"trades": {
				Flags: map[string]complete.Predictor{
					"window":            windows,
					"lifetime":          predict.Nothing,
					"exclude":           predict.Nothing,
					"exclude-zero-cost": predict.Nothing,
				},
			},
			"campaigns": {
				Flags: map[string]complete.Predictor{
					"t":                 predict.Something,
					"lifetime":          predict.Nothing,
					"exclude":           predict.Nothing,
					"exclude-zero-cost": predict.Nothing,
				},
			},
			"chains": {
				Flags: map[string]complete.Predictor{"t": predict.Something},
			},
			"positions": {
				Flags: map[string]complete.Predictor{"on": predict.Nothing},
			},
			"income": {
				Flags: map[string]complete.Predictor{"window": windows},
			},
			"breakdown": {
				Flags: map[string]complete.Predictor{
					"lifetime":          predict.Nothing,
					"exclude":           predict.Nothing,
					"exclude-zero-cost": predict.Nothing,
				},
			},
			"publish": {
				Flags: map[string]complete.Predictor{
					"o":           predict.Dirs("*"),
					"frontmatter": predict.Files("*"),
				},
			},
			"topic":  {Args: predict.Something},
			"assist": {},
		},
	}
	whx.Complete("whx")
}

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, cmd.Group(c))
	}
	commander.Register(commander.HelpCommand(), "help")
	commander.Register(commander.FlagsCommand(), "help")

	flag.Parse()

	// An unknown subcommand may be an external whx-<name> binary on PATH.
	if args := flag.Args(); len(args) > 0 && !cmd.Known(args[0]) {
		if ran, code := cmd.RunExtension(args[0], args[1:]); ran {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}
