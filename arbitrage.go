package cambio

import (
	"maps"
	"slices"

	"github.com/etnz/cambio/date"
	"github.com/google/uuid"
)

// ArbitrageResult is the profit attributed to one arbitrage trade.
type ArbitrageResult struct {
	Movement uuid.UUID
	Date     date.Date
	// Currency is the currency the spread is attributed to: the sale quote currency, or the
	// purchase quote currency when the sale has none.
	Currency   string
	Spread     Money // sale total minus purchase total
	Commission Money // in its own currency
	Profit     Money // spread, less the commission when both share a currency
}

// attributionCurrency returns the currency an arbitrage profit is banked in.
func attributionCurrency(m Movement) string {
	if m.SaleQuoteCurrency != "" {
		return m.SaleQuoteCurrency
	}
	return m.SettlementCurrency()
}

// NewArbitrageResult computes the attribution of an arbitrage movement.
func NewArbitrageResult(m Movement) ArbitrageResult {
	cur := attributionCurrency(m)
	commissionCur := m.CommissionCurrency
	if commissionCur == "" {
		commissionCur = cur
	}
	spread := M(m.SaleTotal.Abs().Sub(m.PurchaseTotal.Abs()), cur)
	commission := M(m.Commission.Abs(), commissionCur)
	profit := spread
	if commissionCur == cur {
		profit = spread.Sub(commission)
	}
	return ArbitrageResult{
		Movement:   m.ID,
		Date:       m.Date,
		Currency:   cur,
		Spread:     spread,
		Commission: commission,
		Profit:     profit,
	}
}

// Arbitrages returns the attribution of every arbitrage movement in replay order.
func Arbitrages(movements []Movement) []ArbitrageResult {
	var results []ArbitrageResult
	for m := range NewJournal(movements).Select(func(m Movement) bool { return m.Is(OpTransactions, SubArbitrage) }) {
		results = append(results, NewArbitrageResult(m))
	}
	return results
}

// ArbitrageTotals sums profits per attribution currency.
func ArbitrageTotals(results []ArbitrageResult) map[string]Money {
	totals := make(map[string]Money)
	for _, r := range results {
		total, ok := totals[r.Currency]
		if !ok {
			total = M(0, r.Currency)
		}
		totals[r.Currency] = total.Add(r.Profit)
	}
	return totals
}

// SortedCurrencies returns the keys of a per-currency map in order.
func SortedCurrencies[V any](m map[string]V) []string { return slices.Sorted(maps.Keys(m)) }
