package cambio

import (
	"testing"

	"github.com/etnz/cambio/date"
)

func memos(movements []Movement) []string {
	var out []string
	for _, m := range movements {
		out = append(out, m.Memo)
	}
	return out
}

func withMemo(m Movement, memo string) Movement {
	m.Memo = memo
	return m
}

func sampleMovements() []Movement {
	transfer := Movement{Operation: OpInternal, SubOperation: SubTransfer, Date: d("2025-02-10"), Account: "partner1_cash", DestinationAccount: "pooled_digital", Currency: "EUR", Amount: dec(20)}
	return []Movement{
		withMemo(newBuy("2025-01-10", "partner1_cash", "USD", 100, 1000, "PESO"), "buy"),
		withMemo(newSell("2025-02-01", "partner2_digital", "USD", 40, 500, "PESO"), "sell"),
		withMemo(newLoan("2025-02-05", "Ana", "PESO", 5000, 24), "loan"),
		withMemo(transfer, "transfer"),
	}
}

func TestFilter_Match(t *testing.T) {
	ana := Lender{Name: "ana"}
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"buy", "sell", "loan", "transfer"}},
		{"partner", Filter{Partner: Partner1}, []string{"buy", "transfer"}},
		{"medium", Filter{Medium: Digital}, []string{"sell", "transfer"}},
		{"partner and medium", Filter{Partner: Pooled, Medium: Cash}, []string{"loan"}},
		{"range", Filter{Range: date.Between(d("2025-02-01"), d("2025-02-05"))}, []string{"sell", "loan"}},
		{"lender", Filter{Lender: &ana}, []string{"loan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := memos(tt.filter.Apply(sampleMovements()))
			if len(got) != len(tt.want) {
				t.Fatalf("Apply() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Apply() = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestSelect(t *testing.T) {
	tests := []struct {
		expr string
		want []string
	}{
		{`@.currency=="USD"`, []string{"buy", "sell"}},
		{`@.amount > 50 && @.currency != "PESO"`, []string{"buy"}},
		{`$[?(@.operation=="LENDERS")]`, []string{"loan"}},
		{`@.destinationAccount=="pooled_digital"`, []string{"transfer"}},
	}
	for _, tt := range tests {
		got, err := Select(sampleMovements(), tt.expr)
		if err != nil {
			t.Fatalf("Select(%q) error: %v", tt.expr, err)
		}
		if g, w := memos(got), tt.want; len(g) != len(w) || (len(g) > 0 && g[0] != w[0]) {
			t.Errorf("Select(%q) = %v, want %v", tt.expr, g, w)
		}
	}

	if _, err := Select(sampleMovements(), `$[?(@.currency==`); err == nil {
		t.Error("Select() with a malformed expression succeeded, want an error")
	}
}
