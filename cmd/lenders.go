package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/config"
	"github.com/etnz/cambio/renderer"
	"github.com/google/subcommands"
)

type lendersCmd struct {
	now string
}

func (*lendersCmd) Name() string { return "lenders" }
func (*lendersCmd) Synopsis() string {
	return "display the principal and interest owed to every lender"
}
func (*lendersCmd) Usage() string {
	return `cbx lenders [-now <date>]

  Accrues simple interest on every lender's principal, a started day counting
  as a full day, up to now (or the given date) and displays the net balance
  owed to each lender, per currency.

  Lenders declared in the configuration file are listed even without movements.
`
}

func (c *lendersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.now, "now", "", "Accrue interest up to this date instead of the current time")
}

func (c *lendersCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now, err := parseNow(c.now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -now: %v\n", err)
		return subcommands.ExitUsageError
	}
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	var reports []*cambio.LenderReport
	for _, l := range cfg.KnownLenders(movements) {
		r := cambio.AccrueLender(movements, l, now)
		config.LogWarnings(Logger(), r.Warnings())
		reports = append(reports, r)
	}
	return printMarkdown(renderer.LendersMarkdown(reports))
}

type lenderCmd struct {
	id   string
	name string
	now  string
}

func (*lenderCmd) Name() string     { return "lender" }
func (*lenderCmd) Synopsis() string { return "display the ledger of one lender" }
func (*lenderCmd) Usage() string {
	return `cbx lender (-id <client_id> | -name <client_name>) [-now <date>]

  Displays every movement with the lender and the principal, interest and net
  balance right after it, then the balance accrued up to now.
`
}

func (c *lenderCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Client id of the lender")
	f.StringVar(&c.name, "name", "", "Name of the lender (case insensitive)")
	f.StringVar(&c.now, "now", "", "Accrue interest up to this date instead of the current time")
}

func (c *lenderCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.id == "" && c.name == "" {
		fmt.Fprintln(os.Stderr, "Error: one of -id or -name is required")
		return subcommands.ExitUsageError
	}
	now, err := parseNow(c.now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -now: %v\n", err)
		return subcommands.ExitUsageError
	}
	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	lender, err := cambio.FindLender(movements, c.id, c.name)
	if err != nil {
		// an unknown lender simply has no movement yet
		Logger().Info().Str("id", c.id).Str("name", c.name).Msg(err.Error())
	}
	r := cambio.AccrueLender(movements, lender, now)
	config.LogWarnings(Logger(), r.Warnings())
	return printMarkdown(renderer.LenderMarkdown(r))
}

type warningsCmd struct {
	now string
}

func (*warningsCmd) Name() string     { return "warnings" }
func (*warningsCmd) Synopsis() string { return "list the movements applied with clamped values" }
func (*warningsCmd) Usage() string {
	return `cbx warnings [-now <date>]

  Derives every view and lists the sales that exceeded the stock and the
  lender withdrawals that exceeded the balance. Such movements are applied
  anyway, with the stock or the principal clamped at zero.
`
}

func (c *warningsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.now, "now", "", "Accrue interest up to this date instead of the current time")
}

func (c *warningsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	now, err := parseNow(c.now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing -now: %v\n", err)
		return subcommands.ExitUsageError
	}
	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	initial, err := DecodeInitialBalances()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	views := cambio.Derive(movements, initial, now)
	return printMarkdown(renderer.WarningsMarkdown(views.Warnings()))
}
