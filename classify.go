package cambio

import (
	"github.com/shopspring/decimal"
)

// Posting is a signed amount applied to one account in one currency.
// A positive amount is an inflow, a negative or zero amount an outflow.
type Posting struct {
	Account  AccountKey
	Currency string
	Amount   decimal.Decimal
}

// IsInflow reports whether the posting adds funds to its account.
func (p Posting) IsInflow() bool { return p.Amount.IsPositive() }

// postingFunc lowers one movement into postings.
type postingFunc func(Movement) []Posting

type ruleKey struct {
	op  Operation
	sub SubOperation
}

// anySub keys the rule applied to the sub-operations of an operation that have no rule of their own.
const anySub SubOperation = ""

var rules = map[ruleKey]postingFunc{
	{OpTransactions, SubBuy}:           outflow,
	{OpTransactions, SubSell}:          inflow,
	{OpTransactions, SubArbitrage}:     arbitrage,
	{OpCurrentAccounts, SubDeposit}:    inflow,
	{OpCurrentAccounts, SubWithdrawal}: outflow,
	{OpPartners, SubDeposit}:           inflow,
	{OpPartners, SubLoan}:              inflow,
	{OpPartners, anySub}:               outflow,
	{OpAdministrative, SubAdjustment}:  adjustment,
	{OpAdministrative, SubExpense}:     outflow,
	{OpLenders, SubLoan}:               inflow,
	{OpLenders, anySub}:                outflow,
	{OpInternal, SubTransfer}:          transfer,
}

// Classify lowers a movement into the postings it applies to the custody accounts.
//
// Arbitrage trades post their four legs and never the movement's own account. Any other
// movement settled through mixed payments posts one outflow per payment instead of its
// single-account postings. Postings against malformed account keys are skipped.
func Classify(m Movement) []Posting {
	if m.Is(OpTransactions, SubArbitrage) {
		return arbitrage(m)
	}
	if len(m.MixedPayments) > 0 {
		return mixed(m)
	}
	rule, ok := rules[ruleKey{m.Operation, m.SubOperation}]
	if !ok {
		rule, ok = rules[ruleKey{m.Operation, anySub}]
	}
	if !ok {
		return nil
	}
	return rule(m)
}

// ClassifyAll classifies every movement, in order.
func ClassifyAll(movements []Movement) []Posting {
	postings := make([]Posting, 0, len(movements))
	for _, m := range movements {
		postings = append(postings, Classify(m)...)
	}
	return postings
}

// post returns a single posting or nothing if the account key is malformed.
func post(account, currency string, amount decimal.Decimal) []Posting {
	key, ok := ParseAccountKey(account)
	if !ok {
		return nil
	}
	return []Posting{{Account: key, Currency: currency, Amount: amount}}
}

func inflow(m Movement) []Posting  { return post(m.Account, m.Currency, m.Amount.Abs()) }
func outflow(m Movement) []Posting { return post(m.Account, m.Currency, m.Amount.Abs().Neg()) }

// adjustment is an inflow when the signed amount is positive, an outflow otherwise.
func adjustment(m Movement) []Posting {
	if m.Amount.IsPositive() {
		return inflow(m)
	}
	return outflow(m)
}

// transfer moves the same amount out of the account and into the destination account.
func transfer(m Movement) []Posting {
	out := post(m.Account, m.Currency, m.Amount.Abs().Neg())
	in := post(m.DestinationAccount, m.Currency, m.Amount.Abs())
	return append(out, in...)
}

// arbitrage posts the four legs of the trade. A leg with a malformed account or no amount is skipped.
func arbitrage(m Movement) []Posting {
	quote := m.SettlementCurrency()
	legs := []struct {
		account  string
		currency string
		amount   decimal.Decimal
	}{
		{m.Legs.Receive, m.Currency, m.Amount.Abs()},
		{m.Legs.Pay, quote, m.PurchaseTotal.Abs().Neg()},
		{m.Legs.Deliver, quote, m.SaleAmount.Abs().Neg()},
		{m.Legs.Collect, m.Currency, m.SaleTotal.Abs()},
	}
	var postings []Posting
	for _, leg := range legs {
		if leg.amount.IsZero() {
			continue
		}
		postings = append(postings, post(leg.account, leg.currency, leg.amount)...)
	}
	return postings
}

// mixed posts one outflow per payment in the settlement currency.
func mixed(m Movement) []Posting {
	quote := m.SettlementCurrency()
	var postings []Posting
	for _, p := range m.MixedPayments {
		key, ok := NewAccountKey(p.Partner, p.Medium)
		if !ok {
			continue
		}
		postings = append(postings, Posting{Account: key, Currency: quote, Amount: p.Amount.Abs().Neg()})
	}
	return postings
}
