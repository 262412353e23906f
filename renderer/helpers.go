package renderer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/date"
	md "github.com/nao1215/markdown"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// rangeTitle describes a date range for report titles.
func rangeTitle(r date.Range) string {
	switch {
	case r.IsOpen():
		return "all time"
	case r.From.IsZero():
		return fmt.Sprintf("until %s", r.To)
	case r.To.IsZero():
		return fmt.Sprintf("since %s", r.From)
	default:
		return fmt.Sprintf("from %s to %s", r.From, r.To)
	}
}

// moneyCell renders an amount, or "-" when zero.
func moneyCell(m cambio.Money) string {
	if m.IsZero() {
		return "-"
	}
	return m.String()
}

// right returns a left aligned first column followed by n right aligned columns.
func right(n int) []md.TableAlignment {
	a := []md.TableAlignment{md.AlignLeft}
	for range n {
		a = append(a, md.AlignRight)
	}
	return a
}
