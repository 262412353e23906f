package cambio

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/etnz/cambio/date"
	"github.com/shopspring/decimal"
)

// ErrUnknownLender is returned when a lender cannot be found among the movements.
var ErrUnknownLender = errors.New("unknown lender")

var daysPerYearPercent = decimal.NewFromInt(365 * 100)

// Lender identifies a lender client.
type Lender struct {
	ID   string
	Name string
}

func (l Lender) String() string {
	switch {
	case l.Name != "" && l.ID != "":
		return fmt.Sprintf("%s (%s)", l.Name, l.ID)
	case l.Name != "":
		return l.Name
	default:
		return l.ID
	}
}

func normalizeName(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// lenderKey identifies the lender of a LENDERS movement: its client id, or its name when the
// movement has no id. It is empty for anonymous movements.
func lenderKey(id, name string) string {
	if id != "" {
		return "id:" + id
	}
	if name = normalizeName(name); name != "" {
		return "name:" + name
	}
	return ""
}

// Matches reports whether a LENDERS movement belongs to the lender. A lender with a client id
// owns the movements carrying that id; a lender known by name only owns the movements without
// id carrying that name. Every movement belongs to at most one discovered lender.
func (l Lender) Matches(m Movement) bool {
	if m.Operation != OpLenders {
		return false
	}
	key := lenderKey(l.ID, l.Name)
	return key != "" && key == lenderKey(m.ClientID, m.ClientName)
}

// LenderBalance is the running position of one lender in one currency.
type LenderBalance struct {
	Currency    string
	Principal   decimal.Decimal
	Interest    decimal.Decimal
	Rate        decimal.Decimal // annual percent
	LastAccrual date.Date
}

// Net returns principal plus accrued interest. Positive means the business owes the lender.
func (b LenderBalance) Net() Money { return M(b.Principal.Add(b.Interest), b.Currency) }

// accrue returns the balance with simple interest added for the days elapsed since the last
// accrual up to t. A started day counts as a full day.
func (b LenderBalance) accrue(t time.Time) LenderBalance {
	if b.LastAccrual.IsZero() {
		return b
	}
	days := b.LastAccrual.CeilDaysUntil(t)
	if days <= 0 || !b.Principal.IsPositive() || !b.Rate.IsPositive() {
		return b
	}
	interest := b.Principal.Mul(b.Rate).Mul(decimal.NewFromInt(int64(days))).Div(daysPerYearPercent)
	b.Interest = b.Interest.Add(interest)
	return b
}

// loan returns the balance after the lender lends amount, and the new rate if one is set.
func (b LenderBalance) loan(m Movement) LenderBalance {
	b.Principal = b.Principal.Add(m.Amount.Abs())
	if m.InterestRate != nil {
		b.Rate = *m.InterestRate
	}
	return b
}

// withdraw returns the balance after paying back amount, interest first. The part that exceeds
// principal and interest is returned as excess; principal never goes negative.
func (b LenderBalance) withdraw(m Movement) (LenderBalance, decimal.Decimal) {
	amount := m.Amount.Abs()
	fromInterest := decimal.Min(amount, b.Interest)
	b.Interest = b.Interest.Sub(fromInterest)
	rest := amount.Sub(fromInterest)
	if rest.GreaterThan(b.Principal) {
		excess := rest.Sub(b.Principal)
		b.Principal = decimal.Zero
		return b, excess
	}
	b.Principal = b.Principal.Sub(rest)
	return b, decimal.Zero
}

// LenderSnapshot is the lender position right after a movement was applied.
type LenderSnapshot struct {
	Movement  Movement
	Principal Money
	Interest  Money
	Net       Money
}

// LenderReport is the accrual replay of one lender's movements, up to a given time.
type LenderReport struct {
	Lender    Lender
	Now       time.Time
	balances  map[string]LenderBalance
	snapshots []LenderSnapshot
	warnings  []Warning
}

// AccrueLender replays the lender's movements in chronological order, per currency, and accrues
// interest once more up to now.
func AccrueLender(movements []Movement, lender Lender, now time.Time) *LenderReport {
	r := &LenderReport{
		Lender:   lender,
		Now:      now,
		balances: make(map[string]LenderBalance),
	}
	for m := range NewJournal(movements).Select(lender.Matches) {
		b, ok := r.balances[m.Currency]
		if !ok {
			b = LenderBalance{Currency: m.Currency}
		}
		b = b.accrue(m.Date.Midnight())

		switch m.SubOperation {
		case SubLoan:
			b = b.loan(m)
		default:
			var excess decimal.Decimal
			b, excess = b.withdraw(m)
			if excess.IsPositive() {
				r.warnings = append(r.warnings, Warning{
					Kind:     Overdrawn,
					Movement: m.ID,
					Date:     m.Date,
					Currency: m.Currency,
					Excess:   excess,
					Message:  fmt.Sprintf("withdrawal from %s exceeds its balance by %s", lender, M(excess, m.Currency)),
				})
			}
		}
		b.LastAccrual = m.Date
		r.balances[m.Currency] = b

		r.snapshots = append(r.snapshots, LenderSnapshot{
			Movement:  m,
			Principal: M(b.Principal, b.Currency),
			Interest:  M(b.Interest, b.Currency),
			Net:       b.Net(),
		})
	}
	for cur, b := range r.balances {
		r.balances[cur] = b.accrue(now)
	}
	return r
}

// Currencies returns the sorted currencies the lender has movements in.
func (r *LenderReport) Currencies() []string { return slices.Sorted(maps.Keys(r.balances)) }

// Balance returns the balance in a currency as of the report time. A currency without
// movements has a zero balance.
func (r *LenderReport) Balance(currency string) LenderBalance {
	if b, ok := r.balances[currency]; ok {
		return b
	}
	return LenderBalance{Currency: currency}
}

// Balances returns every balance as of the report time, sorted by currency.
func (r *LenderReport) Balances() []LenderBalance {
	balances := slices.Collect(maps.Values(r.balances))
	slices.SortFunc(balances, func(a, b LenderBalance) int { return cmp.Compare(a.Currency, b.Currency) })
	return balances
}

// Snapshots returns the audit trail in replay order.
func (r *LenderReport) Snapshots() []LenderSnapshot { return slices.Clone(r.snapshots) }

// Warnings returns the withdrawals that exceeded the balance.
func (r *LenderReport) Warnings() []Warning { return slices.Clone(r.warnings) }

// Lenders discovers the lender identities present in the LENDERS movements, in order of first
// appearance. Movements with a client id are grouped by id, the others by name, the same way
// Matches assigns them.
func Lenders(movements []Movement) []Lender {
	var lenders []Lender
	seen := make(map[string]int)
	for m := range NewJournal(movements).Select(func(m Movement) bool { return m.Operation == OpLenders }) {
		key := lenderKey(m.ClientID, m.ClientName)
		if key == "" {
			continue
		}
		if i, ok := seen[key]; ok {
			if lenders[i].Name == "" {
				lenders[i].Name = strings.TrimSpace(m.ClientName)
			}
			continue
		}
		seen[key] = len(lenders)
		lenders = append(lenders, Lender{ID: m.ClientID, Name: strings.TrimSpace(m.ClientName)})
	}
	return lenders
}

// FindLender returns the lender known by id or name. A name designates the lender known by
// that name only, or else the first lender with a client id bearing that name.
func FindLender(movements []Movement, id, name string) (Lender, error) {
	want := Lender{ID: id, Name: name}
	lenders := Lenders(movements)
	key := lenderKey(id, name)
	for _, l := range lenders {
		if key != "" && lenderKey(l.ID, l.Name) == key {
			return l, nil
		}
	}
	if id == "" && normalizeName(name) != "" {
		for _, l := range lenders {
			if normalizeName(l.Name) == normalizeName(name) {
				return l, nil
			}
		}
	}
	return want, fmt.Errorf("%w: %s", ErrUnknownLender, want)
}

// LenderSummaries accrues every lender found in the movements up to now.
func LenderSummaries(movements []Movement, now time.Time) []*LenderReport {
	lenders := Lenders(movements)
	reports := make([]*LenderReport, len(lenders))
	for i, l := range lenders {
		reports[i] = AccrueLender(movements, l, now)
	}
	return reports
}
