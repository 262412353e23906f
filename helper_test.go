package cambio

import (
	"github.com/etnz/cambio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// PESO is a helper for test to create peso money from const
func PESO(v float64) Money { return M(v, "PESO") }

func d(s string) date.Date { return date.MustParse(s) }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

func ratePtr(v float64) *decimal.Decimal {
	r := dec(v)
	return &r
}

// newBuy creates a desk purchase of amount currency for total quote currency.
func newBuy(on, account, currency string, amount, total float64, quote string) Movement {
	return Movement{
		ID: uuid.New(), Date: d(on), Operation: OpTransactions, SubOperation: SubBuy,
		Account: account, Currency: currency, Amount: dec(amount), Total: dec(total), QuoteCurrency: quote,
	}
}

// newSell creates a desk sale of amount currency for total quote currency.
func newSell(on, account, currency string, amount, total float64, quote string) Movement {
	m := newBuy(on, account, currency, amount, total, quote)
	m.SubOperation = SubSell
	return m
}

// newLoan creates a loan from a lender known by name. A negative rate leaves the rate unset.
func newLoan(on, lender, currency string, amount, rate float64) Movement {
	m := Movement{
		ID: uuid.New(), Date: d(on), Operation: OpLenders, SubOperation: SubLoan,
		Account: "pooled_cash", Currency: currency, Amount: dec(amount), ClientName: lender,
	}
	if rate >= 0 {
		m.InterestRate = ratePtr(rate)
	}
	return m
}

// newRepayment creates a withdrawal paid back to a lender known by name.
func newRepayment(on, lender, currency string, amount float64) Movement {
	return Movement{
		ID: uuid.New(), Date: d(on), Operation: OpLenders, SubOperation: SubWithdrawal,
		Account: "pooled_cash", Currency: currency, Amount: dec(amount), ClientName: lender,
	}
}
