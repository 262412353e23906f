package renderer

import (
	"bytes"

	"github.com/etnz/cambio"
	md "github.com/nao1215/markdown"
)

// ArbitrageMarkdown renders the profit attributed to each arbitrage trade and the totals per
// attribution currency.
func ArbitrageMarkdown(results []cambio.ArbitrageResult) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Arbitrage")
	if len(results) == 0 {
		doc.PlainText("No arbitrage trade.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: right(4),
		Header:    []string{"Date", "Currency", "Spread", "Commission", "Profit"},
	}
	for _, r := range results {
		table.Rows = append(table.Rows, []string{
			r.Date.String(),
			r.Currency,
			r.Spread.SignedString(),
			moneyCell(r.Commission),
			r.Profit.SignedString(),
		})
	}
	doc.Table(table)

	doc.H2("Totals")
	totals := cambio.ArbitrageTotals(results)
	var items []string
	for _, cur := range cambio.SortedCurrencies(totals) {
		items = append(items, md.Bold(cur)+": "+totals[cur].SignedString())
	}
	doc.BulletList(items...)
	return doc.String()
}
