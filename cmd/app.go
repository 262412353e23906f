// Package cmd implements the cbx commands over a movements file.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/cambio"
	"github.com/etnz/cambio/config"
	"github.com/etnz/cambio/date"
	"github.com/etnz/cambio/renderer"
	"github.com/google/subcommands"
	"github.com/phuslu/log"
	"golang.org/x/term"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&balancesCmd{}, "reports")
	c.Register(&stockCmd{}, "reports")
	c.Register(&profitsCmd{}, "reports")
	c.Register(&arbitrageCmd{}, "reports")
	c.Register(&lendersCmd{}, "reports")
	c.Register(&lenderCmd{}, "reports")
	c.Register(&warningsCmd{}, "reports")
	c.Register(&publishCmd{}, "reports")

	c.Register(&movementsCmd{}, "movements")
	c.Register(&addCmd{}, "movements")
	c.Register(&fmtCmd{}, "movements")

	c.Register(&topicCmd{}, "")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var (
	configFile    = flag.String("config", config.DefaultFile, "Path to the configuration file (TOML)")
	movementsFile = flag.String("movements", "", "Path to the movements file (JSONL format), overrides the configuration")
	initialFile   = flag.String("initial", "", "Path to the initial balances file (JSON object), overrides the configuration")
	logLevel      = flag.String("log-level", "", "Log level (debug, info, warn, error), overrides the configuration")
	htmlOutput    = flag.Bool("html", false, "Print reports as HTML instead of rendering them in the terminal")
)

var loadConfig = sync.OnceValues(func() (*config.Config, error) {
	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		return nil, err
	}
	if *movementsFile != "" {
		cfg.Movements = *movementsFile
	}
	if *initialFile != "" {
		cfg.InitialBalances = *initialFile
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	return cfg, nil
})

// Config returns the configuration, with global flags applied.
func Config() (*config.Config, error) { return loadConfig() }

var logger = sync.OnceValue(func() *log.Logger {
	level := *logLevel
	if cfg, err := loadConfig(); err == nil {
		level = cfg.LogLevel
	}
	return config.NewLogger(level, os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
})

// Logger returns the logger of the application.
func Logger() *log.Logger { return logger() }

// DecodeMovements reads the configured movements file. A missing file is an empty collection.
func DecodeMovements() ([]cambio.Movement, error) {
	cfg, err := Config()
	if err != nil {
		return nil, err
	}
	f, err := os.Open(cfg.Movements)
	if errors.Is(err, fs.ErrNotExist) {
		Logger().Warn().Str("file", cfg.Movements).Msg("movements file does not exist, using an empty collection")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open movements file %q: %w", cfg.Movements, err)
	}
	defer f.Close()
	movements, err := cambio.DecodeMovements(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", cfg.Movements, err)
	}
	Logger().Debug().Str("file", cfg.Movements).Int("count", len(movements)).Msg("loaded movements")
	return movements, nil
}

// DecodeInitialBalances reads the configured initial balances file, if any.
func DecodeInitialBalances() (cambio.InitialBalances, error) {
	cfg, err := Config()
	if err != nil {
		return nil, err
	}
	if cfg.InitialBalances == "" {
		return nil, nil
	}
	f, err := os.Open(cfg.InitialBalances)
	if err != nil {
		return nil, fmt.Errorf("cannot open initial balances file %q: %w", cfg.InitialBalances, err)
	}
	defer f.Close()
	initial, err := cambio.DecodeInitialBalances(f)
	if err != nil {
		return nil, fmt.Errorf("in %q: %w", cfg.InitialBalances, err)
	}
	return initial, nil
}

// parseNow parses the -now flag: empty means the current time, a date means its midnight.
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	on, err := date.Parse(s)
	if err != nil {
		return time.Time{}, err
	}
	return on.Midnight(), nil
}

// parseRange parses optional start and end dates into a range. Empty dates leave that side open.
func parseRange(start, end string) (date.Range, error) {
	var from, to date.Date
	var err error
	if start != "" {
		if from, err = date.Parse(start); err != nil {
			return date.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if end != "" {
		if to, err = date.Parse(end); err != nil {
			return date.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return date.Between(from, to), nil
}

// printMarkdown prints a markdown report, rendered for the terminal or converted to HTML.
func printMarkdown(md string) subcommands.ExitStatus {
	out, err := render(md)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering report: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

func render(md string) (string, error) {
	if *htmlOutput {
		return renderer.HTML(md)
	}
	cfg, err := Config()
	if err != nil {
		return "", err
	}
	style := glamour.WithAutoStyle()
	if cfg.Style != "" && cfg.Style != "auto" {
		style = glamour.WithStandardStyle(cfg.Style)
	}
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		// piped output is kept as plain markdown
		return md, nil
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(cfg.WordWrap))
	if err != nil {
		return "", err
	}
	return r.Render(md)
}
