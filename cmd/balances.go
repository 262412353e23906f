package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/config"
	"github.com/etnz/cambio/renderer"
	"github.com/google/subcommands"
)

type balancesCmd struct {
	partner string
	medium  string
}

func (*balancesCmd) Name() string     { return "balances" }
func (*balancesCmd) Synopsis() string { return "display the balance of every account and currency" }
func (*balancesCmd) Usage() string {
	return `cbx balances [-partner <partner>] [-medium <medium>]

  Replays every movement over the initial balances and displays the inflow,
  outflow and balance of each account, per currency.

  Partners are partner1, partner2 and pooled; mediums are cash and digital.
`
}

func (c *balancesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.partner, "partner", "", "Only show the accounts of this partner")
	f.StringVar(&c.medium, "medium", "", "Only show the accounts of this medium")
}

func (c *balancesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	partner := cambio.Partner(strings.ToLower(c.partner))
	if partner != "" && !partner.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown partner %q\n", c.partner)
		return subcommands.ExitUsageError
	}
	medium := cambio.Medium(strings.ToLower(c.medium))
	if medium != "" && !medium.Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown medium %q\n", c.medium)
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

	balances := cambio.NewBalances(movements, initial).Filter(partner, medium)
	return printMarkdown(renderer.BalancesMarkdown(balances, renderer.BalancesTitle(partner, medium)))
}

type stockCmd struct{}

func (*stockCmd) Name() string { return "stock" }
func (*stockCmd) Synopsis() string {
	return "display the stock of each currency at its weighted average cost"
}
func (*stockCmd) Usage() string {
	return `cbx stock

  Replays the buys and sells in chronological order and displays, for each
  traded currency, the quantity in stock, its weighted average cost, its
  valuation and the profit realized by the sales.
`
}

func (c *stockCmd) SetFlags(f *flag.FlagSet) {}

func (c *stockCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	inv := cambio.NewInventory(movements)
	config.LogWarnings(Logger(), inv.Warnings())
	return printMarkdown(renderer.StockMarkdown(inv))
}
