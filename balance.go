package cambio

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// InitialBalances is an overlay of opening balances keyed "partner_medium-CURRENCY".
type InitialBalances map[string]decimal.Decimal

// BalanceKey identifies an account balance: an account in one currency.
type BalanceKey struct {
	Account  AccountKey
	Currency string
}

// String returns the "partner_medium-CURRENCY" form of the key.
func (k BalanceKey) String() string { return k.Account.String() + "-" + k.Currency }

// ParseBalanceKey parses a "partner_medium-CURRENCY" key.
func ParseBalanceKey(s string) (BalanceKey, bool) {
	account, currency, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found || currency == "" {
		return BalanceKey{}, false
	}
	key, ok := ParseAccountKey(account)
	if !ok {
		return BalanceKey{}, false
	}
	return BalanceKey{Account: key, Currency: strings.ToUpper(currency)}, true
}

// AccountBalance is the derived position of one account in one currency.
// Balance is always the initial balance plus Inflow minus Outflow; the initial balance is
// counted in Inflow.
type AccountBalance struct {
	Key     BalanceKey
	Inflow  Money
	Outflow Money
	Balance Money
	Count   int // number of postings applied
}

// Balances maps every account and currency to its balance.
type Balances map[BalanceKey]AccountBalance

// NewBalances classifies the movements and aggregates their postings over the initial balances.
func NewBalances(movements []Movement, initial InitialBalances) Balances {
	return Aggregate(ClassifyAll(movements), initial)
}

// Aggregate folds postings into balances, on top of the initial balances.
//
// Every partner and medium combination exists for every currency that appears in the
// postings or in the overlay, even when nothing was posted to it. Overlay entries with a
// malformed key are ignored.
func Aggregate(postings []Posting, initial InitialBalances) Balances {
	opening := make(map[BalanceKey]decimal.Decimal, len(initial))
	currencies := make(map[string]struct{})
	for raw, amount := range initial {
		key, ok := ParseBalanceKey(raw)
		if !ok {
			continue
		}
		opening[key] = opening[key].Add(amount)
		currencies[key.Currency] = struct{}{}
	}
	for _, p := range postings {
		currencies[p.Currency] = struct{}{}
	}

	b := make(Balances, len(currencies)*len(Partners)*len(Mediums))
	for cur := range currencies {
		for _, partner := range Partners {
			for _, medium := range Mediums {
				key := BalanceKey{Account: AccountKey{Partner: partner, Medium: medium}, Currency: cur}
				b[key] = AccountBalance{Key: key, Inflow: M(0, cur), Outflow: M(0, cur), Balance: M(0, cur)}
			}
		}
	}

	for key, amount := range opening {
		ab := b[key]
		ab.Inflow = ab.Inflow.Add(M(amount, key.Currency))
		ab.Balance = ab.Balance.Add(M(amount, key.Currency))
		b[key] = ab
	}

	for _, p := range postings {
		key := BalanceKey{Account: p.Account, Currency: p.Currency}
		ab := b[key]
		amount := M(p.Amount, p.Currency)
		if p.IsInflow() {
			ab.Inflow = ab.Inflow.Add(amount)
		} else {
			ab.Outflow = ab.Outflow.Sub(amount)
		}
		ab.Balance = ab.Balance.Add(amount)
		ab.Count++
		b[key] = ab
	}
	return b
}

// Get returns the balance of an account in a currency. Unknown keys have a zero balance.
func (b Balances) Get(account AccountKey, currency string) AccountBalance {
	key := BalanceKey{Account: account, Currency: currency}
	if ab, ok := b[key]; ok {
		return ab
	}
	return AccountBalance{Key: key, Inflow: M(0, currency), Outflow: M(0, currency), Balance: M(0, currency)}
}

// Filter returns the balances of a partner and a medium. An empty partner or medium matches all.
// The returned balances share their figures with b.
func (b Balances) Filter(partner Partner, medium Medium) Balances {
	out := make(Balances)
	for key, ab := range b {
		if partner != "" && key.Account.Partner != partner {
			continue
		}
		if medium != "" && key.Account.Medium != medium {
			continue
		}
		out[key] = ab
	}
	return out
}

// Keys returns the keys ordered by currency, partner and medium.
func (b Balances) Keys() []BalanceKey {
	return slices.SortedFunc(maps.Keys(b), func(x, y BalanceKey) int {
		return cmp.Or(
			cmp.Compare(x.Currency, y.Currency),
			cmp.Compare(slices.Index(Partners, x.Account.Partner), slices.Index(Partners, y.Account.Partner)),
			cmp.Compare(slices.Index(Mediums, x.Account.Medium), slices.Index(Mediums, y.Account.Medium)),
		)
	})
}

// Currencies returns the sorted list of currencies present in b.
func (b Balances) Currencies() []string {
	set := make(map[string]struct{})
	for key := range b {
		set[key.Currency] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Totals sums the balances per currency.
func (b Balances) Totals() map[string]Money {
	totals := make(map[string]Money)
	for key, ab := range b {
		total, ok := totals[key.Currency]
		if !ok {
			total = M(0, key.Currency)
		}
		totals[key.Currency] = total.Add(ab.Balance)
	}
	return totals
}
