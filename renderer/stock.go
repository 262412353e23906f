package renderer

import (
	"bytes"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/date"
	md "github.com/nao1215/markdown"
)

// StockMarkdown renders the weighted-average-cost positions and the realized profit.
func StockMarkdown(inv *cambio.Inventory) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Stock")

	positions := inv.Positions()
	if len(positions) == 0 {
		doc.PlainText("No currency was bought or sold.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: right(3),
		Header:    []string{"Currency", "Quantity", "Average Cost", "Valuation"},
	}
	for _, p := range positions {
		avg := cambio.M(p.AverageCost(), p.QuoteCurrency)
		table.Rows = append(table.Rows, []string{
			p.Currency,
			p.Quantity.String(),
			moneyCell(avg),
			moneyCell(p.Valuation()),
		})
	}
	doc.Table(table)

	profit := inv.RealizedProfit()
	if len(profit) > 0 {
		doc.H2("Realized Profit")
		table := md.TableSet{
			Alignment: right(1),
			Header:    []string{"Quote Currency", "Profit"},
		}
		for _, cur := range cambio.SortedCurrencies(profit) {
			table.Rows = append(table.Rows, []string{cur, profit[cur].SignedString()})
		}
		doc.Table(table)
	}

	if sales := inv.Sales(date.Range{}); len(sales) > 0 {
		doc.H2("Sales")
		table := md.TableSet{
			Alignment: right(5),
			Header:    []string{"Date", "Currency", "Quantity", "Unit Cost", "Proceeds", "Profit"},
		}
		for _, s := range sales {
			table.Rows = append(table.Rows, []string{
				s.Date.String(),
				s.Currency,
				s.Quantity.String(),
				cambio.M(s.UnitCost, s.CostCurrency).String(),
				cambio.M(s.Proceeds, s.QuoteCurrency).String(),
				cambio.M(s.Profit, s.QuoteCurrency).SignedString(),
			})
		}
		doc.Table(table)
	}
	return doc.String()
}
