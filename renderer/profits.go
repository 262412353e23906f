package renderer

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/date"
	md "github.com/nao1215/markdown"
)

// ProfitsMarkdown renders the realized profit of the sales, one row per period and one
// column per quote currency.
func ProfitsMarkdown(series []cambio.ProfitBucket, period date.Period, within date.Range) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(fmt.Sprintf("Realized Profit (%s, %s)", period, rangeTitle(within)))

	if len(series) == 0 {
		doc.PlainText("No sale in this range.")
		return doc.String()
	}

	set := make(map[string]struct{})
	for _, b := range series {
		for cur := range b.Profit {
			set[cur] = struct{}{}
		}
	}
	currencies := slices.Sorted(maps.Keys(set))

	totals := make(map[string]cambio.Money)
	table := md.TableSet{
		Alignment: right(len(currencies)),
		Header:    append([]string{"Period"}, currencies...),
	}
	for _, b := range series {
		row := []string{b.Period}
		for _, cur := range currencies {
			p, ok := b.Profit[cur]
			if !ok {
				row = append(row, "-")
				continue
			}
			if t, ok := totals[cur]; ok {
				totals[cur] = t.Add(p)
			} else {
				totals[cur] = p
			}
			row = append(row, p.SignedString())
		}
		table.Rows = append(table.Rows, row)
	}
	total := []string{md.Bold("Total")}
	for _, cur := range currencies {
		total = append(total, md.Bold(totals[cur].SignedString()))
	}
	table.Rows = append(table.Rows, total)
	doc.Table(table)
	return doc.String()
}
