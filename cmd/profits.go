package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/config"
	"github.com/etnz/cambio/date"
	"github.com/etnz/cambio/renderer"
	"github.com/google/subcommands"
)

type profitsCmd struct {
	period string
	start  string
	end    string
}

func (*profitsCmd) Name() string     { return "profits" }
func (*profitsCmd) Synopsis() string { return "display the profit realized by sales, per period" }
func (*profitsCmd) Usage() string {
	return `cbx profits [-period <period>] [-s <start_date>] [-d <end_date>]

  Buckets the profit realized by each sale into periods (daily, weekly,
  monthly, quarterly or yearly), in the quote currency the sale settled in.

  Dates accept "2025-03-01" or relative forms like "-1m" or "0d" (today).
`
}

func (c *profitsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "period", "monthly", "Bucket period (daily, weekly, monthly, quarterly, yearly)")
	f.StringVar(&c.start, "s", "", "Only count sales on or after this date")
	f.StringVar(&c.end, "d", "", "Only count sales on or before this date")
}

func (c *profitsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := date.ParsePeriod(c.period)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing period: %v\n", err)
		return subcommands.ExitUsageError
	}
	within, err := parseRange(c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	inv := cambio.NewInventory(movements)
	config.LogWarnings(Logger(), inv.Warnings())
	return printMarkdown(renderer.ProfitsMarkdown(inv.ProfitSeries(period, within), period, within))
}

type arbitrageCmd struct {
	start string
	end   string
}

func (*arbitrageCmd) Name() string     { return "arbitrage" }
func (*arbitrageCmd) Synopsis() string { return "display the profit attributed to arbitrage trades" }
func (*arbitrageCmd) Usage() string {
	return `cbx arbitrage [-s <start_date>] [-d <end_date>]

  Attributes each arbitrage trade its spread (sale total minus purchase
  total) in the sale quote currency, less the commission when it is paid in
  the same currency.
`
}

func (c *arbitrageCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.start, "s", "", "Only show trades on or after this date")
	f.StringVar(&c.end, "d", "", "Only show trades on or before this date")
}

func (c *arbitrageCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	within, err := parseRange(c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	movements = cambio.Filter{Range: within}.Apply(movements)
	return printMarkdown(renderer.ArbitrageMarkdown(cambio.Arbitrages(movements)))
}
