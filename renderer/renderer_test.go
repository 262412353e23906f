package renderer

import (
	"strings"
	"testing"
	"time"

	"github.com/etnz/cambio"
	"github.com/etnz/cambio/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func movements() []cambio.Movement {
	rate := decimal.NewFromFloat(36.5)
	return []cambio.Movement{
		{Date: date.New(2025, time.January, 1), Operation: cambio.OpTransactions, SubOperation: cambio.SubBuy, Account: "partner1_cash",
			Currency: "USD", Amount: decimal.NewFromInt(100), Total: decimal.NewFromInt(1000), QuoteCurrency: "PESO"},
		{Date: date.New(2025, time.January, 5), Operation: cambio.OpTransactions, SubOperation: cambio.SubSell, Account: "partner1_cash",
			Currency: "USD", Amount: decimal.NewFromInt(40), Total: decimal.NewFromInt(500), QuoteCurrency: "PESO"},
		{Date: date.New(2025, time.January, 1), Operation: cambio.OpLenders, SubOperation: cambio.SubLoan, Account: "pooled_cash",
			Currency: "USD", Amount: decimal.NewFromInt(1000), InterestRate: &rate, ClientName: "Ana"},
		{Date: date.New(2025, time.February, 20), Operation: cambio.OpLenders, SubOperation: cambio.SubWithdrawal, Account: "pooled_cash",
			Currency: "USD", Amount: decimal.NewFromInt(1100), ClientName: "Ana"},
	}
}

func TestBalancesMarkdown(t *testing.T) {
	b := cambio.NewBalances(movements(), nil)
	got := BalancesMarkdown(b.Filter(cambio.Partner1, ""), BalancesTitle(cambio.Partner1, ""))

	assert.Contains(t, got, "# Balances of partner1")
	assert.Contains(t, got, "partner1_cash")
	assert.NotContains(t, got, "partner1_digital", "accounts without postings are omitted")
	assert.NotContains(t, got, "pooled_cash")
}

func TestBalancesTitle(t *testing.T) {
	assert.Equal(t, "Balances", BalancesTitle("", ""))
	assert.Equal(t, "Balances (cash)", BalancesTitle("", cambio.Cash))
	assert.Equal(t, "Balances of pooled (digital)", BalancesTitle(cambio.Pooled, cambio.Digital))
}

func TestStockMarkdown(t *testing.T) {
	got := StockMarkdown(cambio.NewInventory(movements()))

	assert.Contains(t, got, "# Stock")
	assert.Contains(t, got, "## Realized Profit")
	assert.Contains(t, got, "## Sales")
	assert.Contains(t, got, "| USD")

	mixed := StockMarkdown(cambio.NewInventory([]cambio.Movement{
		{Date: date.New(2025, time.January, 1), Operation: cambio.OpTransactions, SubOperation: cambio.SubBuy, Account: "partner1_cash",
			Currency: "USD", Amount: decimal.NewFromInt(100), Total: decimal.NewFromInt(1000), QuoteCurrency: "QQA"},
		{Date: date.New(2025, time.January, 2), Operation: cambio.OpTransactions, SubOperation: cambio.SubSell, Account: "partner1_cash",
			Currency: "USD", Amount: decimal.NewFromInt(10), Total: decimal.NewFromInt(120), QuoteCurrency: "QQB"},
	}))
	assert.Contains(t, mixed, "10.00 QQA", "unit cost is in the currency of the buys")
	assert.Contains(t, mixed, "120.00 QQB")
	assert.NotContains(t, mixed, "10.00 QQB")

	empty := StockMarkdown(cambio.NewInventory(nil))
	assert.Contains(t, empty, "No currency was bought or sold.")
}

func TestProfitsMarkdown(t *testing.T) {
	inv := cambio.NewInventory(movements())
	got := ProfitsMarkdown(inv.ProfitSeries(date.Monthly, date.Range{}), date.Monthly, date.Range{})

	assert.Contains(t, got, "monthly, all time")
	assert.Contains(t, got, "2025-01")
	assert.Contains(t, got, "PESO")

	got = ProfitsMarkdown(nil, date.Daily, date.Between(date.New(2025, time.March, 1), date.New(2025, time.March, 31)))
	assert.Contains(t, got, "from 2025-03-01 to 2025-03-31")
	assert.Contains(t, got, "No sale in this range.")
}

func TestLenderMarkdown(t *testing.T) {
	now := date.New(2025, time.March, 1).Midnight()
	r := cambio.AccrueLender(movements(), cambio.Lender{Name: "ana"}, now)
	got := LenderMarkdown(r)

	assert.Contains(t, got, "# Lender ana")
	assert.Contains(t, got, "Borrowed")
	assert.Contains(t, got, "Paid back")
	assert.Contains(t, got, "## Warnings")

	summary := LendersMarkdown(cambio.LenderSummaries(movements(), now))
	assert.Contains(t, summary, "| Ana")
	assert.Contains(t, summary, "2025-03-01 00:00")

	none := LenderMarkdown(cambio.AccrueLender(movements(), cambio.Lender{Name: "bob"}, now))
	assert.Contains(t, none, "No movement with this lender.")
	assert.NotContains(t, none, "Warnings")
}

func TestMovement(t *testing.T) {
	ms := movements()
	assert.True(t, strings.HasPrefix(Movement(ms[0]), "Bought "))
	assert.True(t, strings.HasPrefix(Movement(ms[1]), "Sold "))
	assert.Contains(t, Movement(ms[2]), "36.5%")
	assert.Equal(t, "current accounts deposit 5.00 XYZ", Movement(cambio.Movement{
		Operation: cambio.OpCurrentAccounts, SubOperation: cambio.SubDeposit, Currency: "XYZ", Amount: decimal.NewFromInt(5),
	}))

	got := MovementsMarkdown(ms, "Movements")
	assert.Contains(t, got, "4 movements.")
}

func TestArbitrageAndWarningsMarkdown(t *testing.T) {
	arb := cambio.Movement{
		Date: date.New(2025, time.April, 1), Operation: cambio.OpTransactions, SubOperation: cambio.SubArbitrage,
		Currency: "USD", QuoteCurrency: "EUR", PurchaseTotal: decimal.NewFromInt(100), SaleTotal: decimal.NewFromInt(104),
	}
	got := ArbitrageMarkdown(cambio.Arbitrages([]cambio.Movement{arb}))
	assert.Contains(t, got, "## Totals")
	assert.Contains(t, got, "**EUR**")

	views := cambio.Derive(movements(), nil, date.New(2025, time.March, 1).Midnight())
	assert.Contains(t, WarningsMarkdown(views.Warnings()), "overdrawn")
	assert.Contains(t, WarningsMarkdown(nil), "No warning.")
}

func TestHTML(t *testing.T) {
	got, err := HTML(WarningsMarkdown([]cambio.Warning{{
		Kind:     cambio.Overdrawn,
		Date:     date.New(2025, time.May, 2),
		Currency: "USD",
		Excess:   decimal.NewFromInt(3),
		Message:  "too much",
	}}))
	require.NoError(t, err)
	assert.Contains(t, got, "<h1>Warnings</h1>")
	assert.Contains(t, got, "<table>")
	assert.Contains(t, got, "<td>overdrawn</td>")
}

func TestHTML_Sanitized(t *testing.T) {
	got, err := HTML(MovementsMarkdown([]cambio.Movement{{
		Date:       date.New(2025, time.May, 2),
		Operation:  cambio.OpLenders,
		ClientName: `<script>alert("x")</script>Ana`,
	}}, "Movements"))
	require.NoError(t, err)
	assert.NotContains(t, got, "<script>")
	assert.Contains(t, got, "Ana")
}
