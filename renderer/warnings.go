package renderer

import (
	"bytes"

	"github.com/etnz/cambio"
	md "github.com/nao1215/markdown"
)

// WarningsMarkdown renders the movements that were applied with clamped values.
func WarningsMarkdown(warnings []cambio.Warning) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Warnings")
	if len(warnings) == 0 {
		doc.PlainText("No warning.")
		return doc.String()
	}
	table := md.TableSet{
		Header: []string{"Date", "Kind", "Currency", "Excess", "Message"},
	}
	for _, w := range warnings {
		table.Rows = append(table.Rows, []string{
			w.Date.String(),
			string(w.Kind),
			w.Currency,
			w.Excess.String(),
			w.Message,
		})
	}
	doc.Table(table)
	return doc.String()
}
