package cambio

import (
	"cmp"
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/cambio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockPosition is the weighted-average-cost position of one traded currency.
type StockPosition struct {
	Currency string
	Quantity Quantity
	// TotalCost is expressed in the quote currencies of the buys, as recorded.
	TotalCost decimal.Decimal
	// QuoteCurrency is the quote currency of the last buy, used to value the stock.
	QuoteCurrency string
	// RealizedProfit is keyed by the quote currency each sale settled in.
	RealizedProfit map[string]decimal.Decimal
}

// AverageCost returns the cost of one unit in stock, or zero when nothing is in stock.
func (p StockPosition) AverageCost() decimal.Decimal {
	if !p.Quantity.IsPositive() {
		return decimal.Zero
	}
	return p.TotalCost.Div(p.Quantity.value)
}

// Valuation returns the stock valued at its average cost, in the associated quote currency.
func (p StockPosition) Valuation() Money {
	return M(p.Quantity.value.Mul(p.AverageCost()), p.QuoteCurrency)
}

// Profit returns the profit realized in a quote currency.
func (p StockPosition) Profit(quote string) Money {
	return M(p.RealizedProfit[quote], quote)
}

// ProfitCurrencies returns the sorted quote currencies in which profit was realized.
func (p StockPosition) ProfitCurrencies() []string {
	return slices.Sorted(maps.Keys(p.RealizedProfit))
}

// buy returns the position after acquiring the movement's amount for its total.
func (p StockPosition) buy(m Movement) StockPosition {
	p.TotalCost = p.TotalCost.Add(m.Total.Abs())
	p.Quantity = p.Quantity.Add(Q(m.Amount.Abs()))
	p.QuoteCurrency = m.SettlementCurrency()
	return p
}

// sell returns the position after disposing of the movement's amount, the realized sale, and
// a warning if the stock did not cover the sale.
func (p StockPosition) sell(m Movement) (StockPosition, Sale, *Warning) {
	sold := Q(m.Amount.Abs())
	unit := p.AverageCost()
	cost := sold.value.Mul(unit)
	proceeds := m.Total.Abs()
	quote := m.SettlementCurrency()

	sale := Sale{
		Movement:      m.ID,
		Date:          m.Date,
		Currency:      p.Currency,
		QuoteCurrency: quote,
		Quantity:      sold,
		UnitCost:      unit,
		CostCurrency:  p.QuoteCurrency,
		CostOfSale:    cost,
		Proceeds:      proceeds,
		Profit:        proceeds.Sub(cost),
	}

	var w *Warning
	if sold.GreaterThan(p.Quantity) {
		excess := sold.Sub(p.Quantity)
		w = &Warning{
			Kind:     InsufficientStock,
			Movement: m.ID,
			Date:     m.Date,
			Currency: p.Currency,
			Excess:   excess.value,
			Message:  fmt.Sprintf("sold %s %s with only %s in stock", sold, p.Currency, p.Quantity),
		}
	}

	profit := maps.Clone(p.RealizedProfit)
	if profit == nil {
		profit = make(map[string]decimal.Decimal)
	}
	profit[quote] = profit[quote].Add(sale.Profit)
	p.RealizedProfit = profit

	p.Quantity = p.Quantity.Sub(sold)
	p.TotalCost = p.TotalCost.Sub(cost)
	if !p.Quantity.IsPositive() || p.TotalCost.IsNegative() {
		if !p.Quantity.IsPositive() {
			p.Quantity = Q(0)
		}
		p.TotalCost = decimal.Zero
	}
	return p, sale, w
}

// Sale is the realized outcome of one sell movement.
type Sale struct {
	Movement      uuid.UUID
	Date          date.Date
	Currency      string
	QuoteCurrency string
	Quantity      Quantity
	UnitCost      decimal.Decimal // average cost at the time of the sale, in CostCurrency
	CostCurrency  string          // quote currency of the last buy
	CostOfSale    decimal.Decimal
	Proceeds      decimal.Decimal
	Profit        decimal.Decimal // in QuoteCurrency
}

// Inventory is the weighted-average-cost replay of the buy and sell movements.
// Arbitrage trades are not part of the inventory.
type Inventory struct {
	positions map[string]StockPosition
	sales     []Sale
	warnings  []Warning
}

// isTrade reports whether a movement is a buy or a sell over the counter.
func isTrade(m Movement) bool {
	return m.Is(OpTransactions, SubBuy) || m.Is(OpTransactions, SubSell)
}

// NewInventory replays the buys and sells in chronological order.
func NewInventory(movements []Movement) *Inventory {
	inv := &Inventory{positions: make(map[string]StockPosition)}
	for m := range NewJournal(movements).Select(isTrade) {
		p, ok := inv.positions[m.Currency]
		if !ok {
			p = StockPosition{Currency: m.Currency}
		}
		switch m.SubOperation {
		case SubBuy:
			p = p.buy(m)
		case SubSell:
			var sale Sale
			var w *Warning
			p, sale, w = p.sell(m)
			inv.sales = append(inv.sales, sale)
			if w != nil {
				inv.warnings = append(inv.warnings, *w)
			}
		}
		inv.positions[m.Currency] = p
	}
	return inv
}

// Position returns the position of a currency. Untraded currencies have an empty position.
func (inv *Inventory) Position(currency string) StockPosition {
	if p, ok := inv.positions[currency]; ok {
		return p
	}
	return StockPosition{Currency: currency}
}

// Positions returns all positions sorted by currency.
func (inv *Inventory) Positions() []StockPosition {
	positions := slices.Collect(maps.Values(inv.positions))
	slices.SortFunc(positions, func(a, b StockPosition) int { return cmp.Compare(a.Currency, b.Currency) })
	return positions
}

// Sales returns the realized sales within a range, in replay order.
func (inv *Inventory) Sales(within date.Range) []Sale {
	var sales []Sale
	for _, s := range inv.sales {
		if within.Contains(s.Date) {
			sales = append(sales, s)
		}
	}
	return sales
}

// Warnings returns the sales that exceeded the stock.
func (inv *Inventory) Warnings() []Warning { return slices.Clone(inv.warnings) }

// RealizedProfit sums the realized profit of all currencies per quote currency.
func (inv *Inventory) RealizedProfit() map[string]Money {
	totals := make(map[string]Money)
	for _, p := range inv.positions {
		for quote, profit := range p.RealizedProfit {
			total, ok := totals[quote]
			if !ok {
				total = M(0, quote)
			}
			totals[quote] = total.Add(M(profit, quote))
		}
	}
	return totals
}

// ProfitBucket is the realized profit of one period, per quote currency.
type ProfitBucket struct {
	Period string // period identifier, e.g. "2025-03" for a month
	Range  date.Range
	Profit map[string]Money
}

// Currencies returns the sorted quote currencies of the bucket.
func (b ProfitBucket) Currencies() []string { return slices.Sorted(maps.Keys(b.Profit)) }

// ProfitSeries buckets the realized profit of the sales within a range by period, in
// chronological order. Each sale counts in its own quote currency.
func (inv *Inventory) ProfitSeries(period date.Period, within date.Range) []ProfitBucket {
	var buckets []ProfitBucket
	index := make(map[string]int)
	for _, s := range inv.Sales(within) {
		id := period.Key(s.Date)
		i, ok := index[id]
		if !ok {
			i = len(buckets)
			index[id] = i
			buckets = append(buckets, ProfitBucket{Period: id, Range: period.Range(s.Date), Profit: make(map[string]Money)})
		}
		total, ok := buckets[i].Profit[s.QuoteCurrency]
		if !ok {
			total = M(0, s.QuoteCurrency)
		}
		buckets[i].Profit[s.QuoteCurrency] = total.Add(M(s.Profit, s.QuoteCurrency))
	}
	return buckets
}
