package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/cambio"
	md "github.com/nao1215/markdown"
)

// BalancesMarkdown renders the account balances, one table per currency.
// Accounts without any posting and a zero balance are omitted.
func BalancesMarkdown(b cambio.Balances, title string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)

	byCurrency := make(map[string][]cambio.AccountBalance)
	for _, k := range b.Keys() {
		ab := b[k]
		if ab.Count == 0 && ab.Balance.IsZero() && ab.Inflow.IsZero() {
			continue
		}
		byCurrency[k.Currency] = append(byCurrency[k.Currency], ab)
	}
	if len(byCurrency) == 0 {
		doc.PlainText("No balances.")
		return doc.String()
	}

	totals := b.Totals()
	for _, cur := range b.Currencies() {
		rows := byCurrency[cur]
		if len(rows) == 0 {
			continue
		}
		doc.H2(cur)
		table := md.TableSet{
			Alignment: right(4),
			Header:    []string{"Account", "Inflow", "Outflow", "Balance", "Movements"},
		}
		for _, ab := range rows {
			table.Rows = append(table.Rows, []string{
				ab.Key.Account.String(),
				moneyCell(ab.Inflow),
				moneyCell(ab.Outflow),
				ab.Balance.String(),
				strconv.Itoa(ab.Count),
			})
		}
		table.Rows = append(table.Rows, []string{md.Bold("Total"), "", "", md.Bold(totals[cur].String()), ""})
		doc.Table(table)
	}
	return doc.String()
}

// BalancesTitle builds the title of a balances report for a partner and medium filter.
func BalancesTitle(partner cambio.Partner, medium cambio.Medium) string {
	switch {
	case partner != "" && medium != "":
		return fmt.Sprintf("Balances of %s (%s)", partner, medium)
	case partner != "":
		return fmt.Sprintf("Balances of %s", partner)
	case medium != "":
		return fmt.Sprintf("Balances (%s)", medium)
	default:
		return "Balances"
	}
}
