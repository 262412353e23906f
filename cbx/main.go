// Command cbx derives balances, stock, profits and lender positions from an exchange desk's movements file.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/cambio/cmd"
	"github.com/etnz/cambio/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	cmd.Register(commander)

	completion(commander).Complete(commander.Name())

	flag.Parse()

	if name := flag.Arg(0); name != "" && !known(commander, name) {
		if found, code := cmd.RunExtension(name, flag.Args()[1:]); found {
			os.Exit(code)
		}
	}
	os.Exit(int(commander.Execute(context.Background())))
}

// known reports whether name is a registered subcommand.
func known(commander *subcommands.Commander, name string) (ok bool) {
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		if c.Name() == name {
			ok = true
		}
	})
	return ok
}

// completion describes the command line for shell completion, flags included.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flags(flag.CommandLine),
	}
	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{Flags: flags(fs)}
	})
	if names, err := docs.Names(); err == nil {
		root.Sub["topic"].Args = predict.Set(names)
	}
	return root
}

func flags(fs *flag.FlagSet) map[string]complete.Predictor {
	predictors := map[string]complete.Predictor{}
	fs.VisitAll(func(f *flag.Flag) {
		switch f.Name {
		case "movements":
			predictors[f.Name] = predict.Files("*.jsonl")
		case "initial":
			predictors[f.Name] = predict.Files("*.json")
		case "config":
			predictors[f.Name] = predict.Files("*.toml")
		case "o":
			predictors[f.Name] = predict.Dirs("*")
		case "log-level":
			predictors[f.Name] = predict.Set{"debug", "info", "warn", "error"}
		case "partner":
			predictors[f.Name] = predict.Set{"partner1", "partner2", "pooled"}
		case "medium":
			predictors[f.Name] = predict.Set{"cash", "digital"}
		case "period":
			predictors[f.Name] = predict.Set{"daily", "weekly", "monthly", "quarterly", "yearly"}
		default:
			predictors[f.Name] = predict.Nothing
		}
	})
	return predictors
}
