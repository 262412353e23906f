package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/renderer"
	"github.com/google/subcommands"
	"github.com/google/uuid"
)

type movementsCmd struct {
	where   string
	start   string
	end     string
	partner string
	medium  string
	lender  string
	json    bool
}

func (*movementsCmd) Name() string     { return "movements" }
func (*movementsCmd) Synopsis() string { return "list movements, optionally filtered" }
func (*movementsCmd) Usage() string {
	return `cbx movements [-where <filter>] [-s <start_date>] [-d <end_date>] [-partner <partner>] [-medium <medium>] [-lender <id|name>] [-json]

  Lists the movements in chronological order.

  -where takes a jsonpath filter evaluated on each movement's JSON form, e.g.
    cbx movements -where '@.currency=="USD" && @.amount > 1000'
    cbx movements -where '$[?(@.operation=="LENDERS")]'
`
}

func (c *movementsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.where, "where", "", "jsonpath filter expression")
	f.StringVar(&c.start, "s", "", "Only list movements on or after this date")
	f.StringVar(&c.end, "d", "", "Only list movements on or before this date")
	f.StringVar(&c.partner, "partner", "", "Only list movements touching an account of this partner")
	f.StringVar(&c.medium, "medium", "", "Only list movements touching an account of this medium")
	f.StringVar(&c.lender, "lender", "", "Only list movements with this lender, by client id or name")
	f.BoolVar(&c.json, "json", false, "Print the movements as JSONL")
}

func (c *movementsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	within, err := parseRange(c.start, c.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}
	filter := cambio.Filter{
		Partner: cambio.Partner(strings.ToLower(c.partner)),
		Medium:  cambio.Medium(strings.ToLower(c.medium)),
		Range:   within,
	}

	movements, err := DecodeMovements()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if c.lender != "" {
		lender, err := cambio.FindLender(movements, c.lender, "")
		if err != nil {
			lender, err = cambio.FindLender(movements, "", c.lender)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		filter.Lender = &lender
	}
	movements = slices.Collect(cambio.NewJournal(filter.Apply(movements)).Movements())
	if c.where != "" {
		if movements, err = cambio.Select(movements, c.where); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitUsageError
		}
	}

	if c.json {
		if err := cambio.EncodeMovements(os.Stdout, movements); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	return printMarkdown(renderer.MovementsMarkdown(movements, "Movements"))
}

type addCmd struct{}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append movements to the movements file" }
func (*addCmd) Usage() string {
	return `cbx add [<json object>...]

  Appends movements to the movements file. Each argument is a JSON object; with
  no argument, JSONL is read from the standard input. Movements without an id
  are given a new one.

Usage Examples:
$ cbx add '{"date":"2025-03-01","operation":"TRANSACTIONS","subOperation":"BUY","amount":100,"total":120000,"currency":"USD","quoteCurrency":"PESO","account":"partner1_cash"}'
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var input io.Reader = os.Stdin
	if f.NArg() > 0 {
		input = strings.NewReader(strings.Join(f.Args(), "\n"))
	}
	movements, err := cambio.DecodeMovements(input)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for i, m := range movements {
		if err := validate(m); err != nil {
			fmt.Fprintf(os.Stderr, "Error in movement #%d: %v\n", i+1, err)
			return subcommands.ExitFailure
		}
	}
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if err := appendMovements(cfg.Movements, movements); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	Logger().Info().Str("file", cfg.Movements).Int("count", len(movements)).Msg("appended movements")
	return subcommands.ExitSuccess
}

// validate rejects movements that no derivation could use.
func validate(m cambio.Movement) error {
	if m.Date.IsZero() {
		return fmt.Errorf("missing date")
	}
	if !m.Operation.Valid() {
		return fmt.Errorf("unknown operation %q", m.Operation)
	}
	if m.Operation == cambio.OpLenders && m.ClientID == "" && m.ClientName == "" {
		return fmt.Errorf("a lender movement needs a clientId or a clientName")
	}
	return nil
}

// appendMovements appends movements to a JSONL file, giving an id to those without one.
func appendMovements(filename string, movements []cambio.Movement) error {
	var buf bytes.Buffer
	for _, m := range movements {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
		if err := cambio.EncodeMovement(&buf, m); err != nil {
			return err
		}
	}
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("cannot open movements file %q: %w", filename, err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("cannot write to movements file %q: %w", filename, err)
	}
	return nil
}

type fmtCmd struct {
	check bool
}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "formats the movements file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `cbx fmt [-check]

  Reads all movements, gives an id to those without one, sorts them by date
  (keeping the order of movements of the same day) and writes them back in a
  canonical JSONL format.
`
}

func (c *fmtCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Only report whether the file is already formatted")
}

func (c *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	original, err := os.ReadFile(cfg.Movements)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not read movements: %v\n", err)
		return subcommands.ExitFailure
	}
	formatted, err := format(original)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error in %q: %v\n", cfg.Movements, err)
		return subcommands.ExitFailure
	}

	if c.check {
		if !bytes.Equal(original, formatted) {
			fmt.Fprintf(os.Stderr, "%s is not formatted\n", cfg.Movements)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	if err := os.WriteFile(cfg.Movements, formatted, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving formatted movements: %v\n", err)
		return subcommands.ExitFailure
	}
	Logger().Info().Str("file", cfg.Movements).Msg("formatted movements")
	return subcommands.ExitSuccess
}

// format returns the canonical form of a JSONL movements file.
func format(data []byte) ([]byte, error) {
	movements, err := cambio.DecodeMovements(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for m := range cambio.NewJournal(movements).Movements() {
		if m.ID == uuid.Nil {
			// derive a stable id so that formatting twice is a no-op
			raw, _ := json.Marshal(m)
			m.ID = uuid.NewSHA1(uuid.NameSpaceOID, raw)
		}
		if err := cambio.EncodeMovement(&buf, m); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}
