package cambio

import (
	"testing"

	"github.com/etnz/cambio/date"
)

func TestInventory_BuyThenSell(t *testing.T) {
	inv := NewInventory([]Movement{
		newBuy("2025-03-01", "partner1_cash", "USD", 100, 1000, "PESO"),
		newSell("2025-03-05", "partner1_cash", "USD", 40, 500, "PESO"),
	})
	p := inv.Position("USD")

	if got, want := p.Profit("PESO"), PESO(100); !got.Equal(want) {
		t.Errorf("realized profit = %v, want %v", got, want)
	}
	if got, want := p.Quantity, Q(60); !got.Equal(want) {
		t.Errorf("quantity = %v, want %v", got, want)
	}
	if got, want := p.TotalCost, dec(600); !got.Equal(want) {
		t.Errorf("total cost = %v, want %v", got, want)
	}
	if got, want := p.AverageCost(), dec(10); !got.Equal(want) {
		t.Errorf("average cost = %v, want %v", got, want)
	}
	if got, want := p.Valuation(), PESO(600); !got.Equal(want) {
		t.Errorf("valuation = %v, want %v", got, want)
	}
	if len(inv.Warnings()) != 0 {
		t.Errorf("unexpected warnings: %v", inv.Warnings())
	}
}

func TestInventory_WeightedAverage(t *testing.T) {
	inv := NewInventory([]Movement{
		newBuy("2025-03-01", "partner1_cash", "USD", 100, 1000, "PESO"),
		newBuy("2025-03-02", "partner1_cash", "USD", 100, 1200, "PESO"),
		newSell("2025-03-03", "partner1_cash", "USD", 50, 600, "PESO"),
	})
	p := inv.Position("USD")
	if got, want := p.AverageCost(), dec(11); !got.Equal(want) {
		t.Errorf("average cost = %v, want %v", got, want)
	}
	if got, want := p.Profit("PESO"), PESO(50); !got.Equal(want) {
		t.Errorf("realized profit = %v, want %v", got, want)
	}
	sales := inv.Sales(date.Range{})
	if len(sales) != 1 {
		t.Fatalf("len(Sales) = %d, want 1", len(sales))
	}
	if got, want := sales[0].CostOfSale, dec(550); !got.Equal(want) {
		t.Errorf("cost of sale = %v, want %v", got, want)
	}
}

func TestInventory_Oversell(t *testing.T) {
	inv := NewInventory([]Movement{
		newBuy("2025-03-01", "partner1_cash", "EUR", 10, 120, "USD"),
		newSell("2025-03-02", "partner1_cash", "EUR", 15, 195, "USD"),
	})
	p := inv.Position("EUR")
	if !p.Quantity.IsZero() || !p.TotalCost.IsZero() {
		t.Errorf("position after oversell = %v / %v, want 0 / 0", p.Quantity, p.TotalCost)
	}
	// cost of sale uses the existing average cost: 15 * 12 = 180
	if got, want := p.Profit("USD"), USD(15); !got.Equal(want) {
		t.Errorf("realized profit = %v, want %v", got, want)
	}
	warnings := inv.Warnings()
	if len(warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(warnings))
	}
	if got, want := warnings[0].Kind, InsufficientStock; got != want {
		t.Errorf("warning kind = %v, want %v", got, want)
	}
	if got, want := warnings[0].Excess, dec(5); !got.Equal(want) {
		t.Errorf("warning excess = %v, want %v", got, want)
	}
}

func TestInventory_SellBeforeBuy(t *testing.T) {
	inv := NewInventory([]Movement{
		newSell("2025-03-01", "partner1_cash", "USD", 5, 50, "PESO"),
		newBuy("2025-03-02", "partner1_cash", "USD", 10, 100, "PESO"),
	})
	p := inv.Position("USD")
	if got, want := p.Quantity, Q(10); !got.Equal(want) {
		t.Errorf("quantity = %v, want %v", got, want)
	}
	if got, want := p.Profit("PESO"), PESO(50); !got.Equal(want) {
		t.Errorf("realized profit = %v, want %v", got, want)
	}
	if len(inv.Warnings()) != 1 {
		t.Errorf("len(Warnings) = %d, want 1", len(inv.Warnings()))
	}
}

func TestInventory_ProfitBankedInSaleQuote(t *testing.T) {
	inv := NewInventory([]Movement{
		newBuy("2025-03-01", "partner1_cash", "USD", 100, 1000, "PESO"),
		newSell("2025-03-02", "partner1_cash", "USD", 10, 9.5, "EUR"),
	})
	p := inv.Position("USD")
	if got, want := p.Profit("EUR"), M(-90.5, "EUR"); !got.Equal(want) {
		t.Errorf("EUR profit = %v, want %v", got, want)
	}
	if !p.Profit("PESO").IsZero() {
		t.Errorf("PESO profit = %v, want 0", p.Profit("PESO"))
	}
	if got, want := p.QuoteCurrency, "PESO"; got != want {
		t.Errorf("quote currency = %q, want %q", got, want)
	}

	sales := inv.Sales(date.Range{})
	if len(sales) != 1 {
		t.Fatalf("got %d sales, want 1", len(sales))
	}
	if got, want := sales[0].CostCurrency, "PESO"; got != want {
		t.Errorf("sale cost currency = %q, want %q", got, want)
	}
	if got, want := sales[0].QuoteCurrency, "EUR"; got != want {
		t.Errorf("sale quote currency = %q, want %q", got, want)
	}
}

func TestInventory_NeverNegative(t *testing.T) {
	movements := []Movement{
		newBuy("2025-01-01", "partner1_cash", "USD", 3, 10, "PESO"),
		newSell("2025-01-02", "partner1_cash", "USD", 1, 4, "PESO"),
		newSell("2025-01-03", "partner1_cash", "USD", 1, 4, "PESO"),
		newSell("2025-01-04", "partner1_cash", "USD", 1, 4, "PESO"),
		newSell("2025-01-05", "partner1_cash", "USD", 7, 30, "PESO"),
		newBuy("2025-01-06", "partner1_cash", "USD", 7, 21, "PESO"),
		newSell("2025-01-07", "partner1_cash", "USD", 2, 9, "PESO"),
	}
	for i := range movements {
		p := NewInventory(movements[:i+1]).Position("USD")
		if p.Quantity.IsNegative() || p.TotalCost.IsNegative() {
			t.Errorf("after %d movements: quantity %v, total cost %v", i+1, p.Quantity, p.TotalCost)
		}
	}
}

func TestInventory_Deterministic(t *testing.T) {
	movements := []Movement{
		newSell("2025-01-05", "partner1_cash", "USD", 10, 110, "PESO"),
		newBuy("2025-01-01", "partner1_cash", "USD", 30, 300, "PESO"),
		newBuy("2025-01-05", "partner1_cash", "USD", 10, 90, "PESO"),
	}
	a := NewInventory(movements).Position("USD")
	b := NewInventory(movements).Position("USD")
	if !a.Quantity.Equal(b.Quantity) || !a.TotalCost.Equal(b.TotalCost) || !a.Profit("PESO").Equal(b.Profit("PESO")) {
		t.Errorf("replays differ: %v vs %v", a, b)
	}
	// same-day movements replay in collection order: the sale comes before the second buy
	if got, want := a.Profit("PESO"), PESO(10); !got.Equal(want) {
		t.Errorf("profit = %v, want %v", got, want)
	}
	if movements[0].SubOperation != SubSell {
		t.Error("NewInventory reordered its input")
	}
}

func TestInventory_ProfitSeries(t *testing.T) {
	inv := NewInventory([]Movement{
		newBuy("2025-01-01", "partner1_cash", "USD", 100, 1000, "PESO"),
		newSell("2025-01-15", "partner1_cash", "USD", 10, 120, "PESO"),
		newSell("2025-01-20", "partner1_cash", "USD", 10, 130, "PESO"),
		newSell("2025-02-03", "partner1_cash", "USD", 10, 11, "EUR"),
		{Operation: OpTransactions, SubOperation: SubArbitrage, Date: d("2025-02-04"), Currency: "USD", Amount: dec(5)},
	})

	monthly := inv.ProfitSeries(date.Monthly, date.Range{})
	if len(monthly) != 2 {
		t.Fatalf("len(monthly) = %d, want 2", len(monthly))
	}
	if got, want := monthly[0].Period, "2025-01"; got != want {
		t.Errorf("first period = %q, want %q", got, want)
	}
	if got, want := monthly[0].Profit["PESO"], PESO(50); !got.Equal(want) {
		t.Errorf("January profit = %v, want %v", got, want)
	}
	if got, want := monthly[1].Profit["EUR"], M(-89, "EUR"); !got.Equal(want) {
		t.Errorf("February profit = %v, want %v", got, want)
	}

	daily := inv.ProfitSeries(date.Daily, date.Between(d("2025-01-16"), d("2025-01-31")))
	if len(daily) != 1 {
		t.Fatalf("len(daily) = %d, want 1", len(daily))
	}
	if got, want := daily[0].Profit["PESO"], PESO(30); !got.Equal(want) {
		t.Errorf("daily profit = %v, want %v", got, want)
	}
}
