package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cambio"
	md "github.com/nao1215/markdown"
)

// LendersMarkdown renders the current balance of every lender.
func LendersMarkdown(reports []*cambio.LenderReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Lenders")
	if len(reports) == 0 {
		doc.PlainText("No lender.")
		return doc.String()
	}
	doc.PlainText(fmt.Sprintf("Interest accrued up to %s.", reports[0].Now.Format("2006-01-02 15:04")))

	table := md.TableSet{
		Alignment: right(4),
		Header:    []string{"Lender", "Rate", "Principal", "Interest", "Net Balance"},
	}
	for _, r := range reports {
		for _, b := range r.Balances() {
			table.Rows = append(table.Rows, []string{
				r.Lender.String(),
				b.Rate.String() + "%",
				cambio.M(b.Principal, b.Currency).String(),
				cambio.M(b.Interest.Round(2), b.Currency).String(),
				md.Bold(b.Net().String()),
			})
		}
	}
	doc.Table(table)
	return doc.String()
}

// LenderMarkdown renders the ledger of one lender: the balance after each movement, then the
// balance accrued up to the report time.
func LenderMarkdown(r *cambio.LenderReport) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Lender %s", r.Lender))

	snapshots := r.Snapshots()
	if len(snapshots) == 0 {
		doc.PlainText("No movement with this lender.")
		return doc.String()
	}

	for _, cur := range r.Currencies() {
		doc.H2(cur)
		table := md.TableSet{
			Alignment: right(4),
			Header:    []string{"Date", "Movement", "Principal", "Interest", "Net Balance"},
		}
		for _, s := range snapshots {
			if s.Movement.Currency != cur {
				continue
			}
			table.Rows = append(table.Rows, []string{
				s.Movement.Date.String(),
				Movement(s.Movement),
				s.Principal.String(),
				s.Interest.String(),
				s.Net.String(),
			})
		}
		b := r.Balance(cur)
		table.Rows = append(table.Rows, []string{
			r.Now.Format("2006-01-02"),
			md.Italic("accrued"),
			cambio.M(b.Principal, cur).String(),
			cambio.M(b.Interest, cur).String(),
			md.Bold(b.Net().String()),
		})
		doc.Table(table)
	}

	var warnings strings.Builder
	ConditionalBlock(&warnings, func(w io.Writer) bool {
		list := r.Warnings()
		sub := md.NewMarkdown(w)
		sub.H2("Warnings")
		var items []string
		for _, warn := range list {
			items = append(items, warn.String())
		}
		sub.BulletList(items...)
		sub.Build()
		return len(list) > 0
	})
	if warnings.Len() > 0 {
		doc.PlainText(warnings.String())
	}
	return doc.String()
}
