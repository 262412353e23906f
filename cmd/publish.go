package cmd

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"text/template"
	"time"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/date"
	"github.com/etnz/cambio/renderer"
	"github.com/google/subcommands"
)

type reportTask struct {
	Period date.Range // zero for reports that cover all movements
	Report string
}

// filePath returns the path of the report relative to the output directory.
func (t reportTask) filePath(ext string) string {
	p, ok := t.Period.Period()
	if !ok {
		return t.Report + ext
	}
	return path.Join(t.Report, p.String(), t.Period.Identifier()+ext)
}

type publishCmd struct {
	outputDir      string
	frontMatterTpl string
	now            string
	html           bool
}

func (*publishCmd) Name() string { return "publish" }

func (*publishCmd) Synopsis() string { return "generates all reports into a directory tree" }

func (*publishCmd) Usage() string {
	return `cbx publish [-o <dir>] [-frontmatter <file>] [-now <date>] [-html]

  Generates the balances, stock, lenders, arbitrage and warnings reports, and
  the realized profit of every month (daily buckets) and every year (monthly
  buckets), and saves them to a structured directory tree.
`
}

func (c *publishCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.outputDir, "o", "reports", "Root directory for the generated reports")
	f.StringVar(&c.frontMatterTpl, "frontmatter", "", "Path to a Go template file for the report front matter")
	f.StringVar(&c.now, "now", "", "Accrue lender interest up to this date instead of the current time")
	f.BoolVar(&c.html, "html", false, "Write HTML files instead of markdown")
}

func (c *publishCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var frontMatterTpl *template.Template
	if c.frontMatterTpl != "" {
		var err error
		frontMatterTpl, err = template.ParseFiles(c.frontMatterTpl)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to parse front matter template: %v\n", err)
			return subcommands.ExitFailure
		}
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
	initial, err := DecodeInitialBalances()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	cfg, err := Config()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	views := cambio.Derive(movements, initial, now)
	var lenders []*cambio.LenderReport
	for _, l := range cfg.KnownLenders(movements) {
		lenders = append(lenders, cambio.AccrueLender(movements, l, now))
	}

	tasks := []reportTask{
		{Report: "balances"},
		{Report: "stock"},
		{Report: "lenders"},
		{Report: "arbitrage"},
		{Report: "warnings"},
	}
	if first, ok := oldest(movements); ok {
		for _, r := range generatePeriods(first, date.Of(now), date.Monthly, date.Yearly) {
			tasks = append(tasks, reportTask{Period: r, Report: "profits"})
		}
	}

	for _, task := range tasks {
		var md string
		switch task.Report {
		case "balances":
			md = renderer.BalancesMarkdown(views.Balances, renderer.BalancesTitle("", ""))
		case "stock":
			md = renderer.StockMarkdown(views.Inventory)
		case "lenders":
			md = renderer.LendersMarkdown(lenders)
		case "arbitrage":
			md = renderer.ArbitrageMarkdown(cambio.Arbitrages(movements))
		case "warnings":
			md = renderer.WarningsMarkdown(views.Warnings())
		case "profits":
			bucket := date.Daily
			if p, _ := task.Period.Period(); p == date.Yearly {
				bucket = date.Monthly
			}
			md = renderer.ProfitsMarkdown(views.Inventory.ProfitSeries(bucket, task.Period), bucket, task.Period)
		}

		ext := ".md"
		if c.html {
			ext = ".html"
			if md, err = renderer.HTML(md); err != nil {
				fmt.Fprintf(os.Stderr, "failed to convert %s report: %v\n", task.Report, err)
				return subcommands.ExitFailure
			}
		}

		if frontMatterTpl != nil {
			fm, err := renderFrontMatter(frontMatterTpl, task)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to render front matter for %s report: %v\n", task.filePath(""), err)
				continue
			}
			md = fm + "\n" + md
		}

		fullPath := filepath.Join(c.outputDir, filepath.FromSlash(task.filePath(ext)))
		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create output directory for file %s: %v\n", fullPath, err)
			return subcommands.ExitFailure
		}
		if err := os.WriteFile(fullPath, []byte(md), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write file %s: %v\n", fullPath, err)
			return subcommands.ExitFailure
		}
		Logger().Debug().Str("file", fullPath).Msg("generated report")
	}
	Logger().Info().Int("reports", len(tasks)).Str("dir", c.outputDir).Time("now", now.Truncate(time.Second)).Msg("published")
	return subcommands.ExitSuccess
}

// oldest returns the date of the first movement.
func oldest(movements []cambio.Movement) (date.Date, bool) {
	for m := range cambio.NewJournal(movements).Movements() {
		return m.Date, true
	}
	return date.Date{}, false
}

// generatePeriods returns the ranges of the given periods from startDate to endDate.
func generatePeriods(startDate, endDate date.Date, periods ...date.Period) []date.Range {
	var ranges []date.Range
	if startDate.IsZero() {
		return ranges
	}
	for _, periodType := range periods {
		for r := date.NewRange(startDate, periodType); !r.From.After(endDate); r = date.NewRange(r.To.Add(1), periodType) {
			ranges = append(ranges, r)
		}
	}
	return ranges
}

func renderFrontMatter(tpl *template.Template, task reportTask) (string, error) {
	var fmBuffer bytes.Buffer
	if err := tpl.Execute(&fmBuffer, task); err != nil {
		return "", err
	}
	return fmBuffer.String(), nil
}
