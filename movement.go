package cambio

import (
	"slices"
	"strings"

	"github.com/etnz/cambio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Operation is the family of a movement.
type Operation string

// Operations recorded by the desk.
const (
	OpTransactions    Operation = "TRANSACTIONS"
	OpCurrentAccounts Operation = "CURRENT_ACCOUNTS"
	OpPartners        Operation = "PARTNERS"
	OpAdministrative  Operation = "ADMINISTRATIVE"
	OpLenders         Operation = "LENDERS"
	OpInternal        Operation = "INTERNAL"
)

// Operations lists the known operations.
var Operations = []Operation{OpTransactions, OpCurrentAccounts, OpPartners, OpAdministrative, OpLenders, OpInternal}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool { return slices.Contains(Operations, o) }

// SubOperation refines an Operation. Its meaning depends on the operation.
type SubOperation string

const (
	SubBuy        SubOperation = "BUY"
	SubSell       SubOperation = "SELL"
	SubArbitrage  SubOperation = "ARBITRAGE"
	SubDeposit    SubOperation = "DEPOSIT"
	SubWithdrawal SubOperation = "WITHDRAWAL"
	SubLoan       SubOperation = "LOAN"
	SubAdjustment SubOperation = "ADJUSTMENT"
	SubExpense    SubOperation = "EXPENSE"
	SubTransfer   SubOperation = "TRANSFER"
)

// Partner owns an account. Pooled accounts belong to the partnership.
type Partner string

const (
	Partner1 Partner = "partner1"
	Partner2 Partner = "partner2"
	Pooled   Partner = "pooled"
)

// Partners lists the known partners in display order.
var Partners = []Partner{Partner1, Partner2, Pooled}

// Valid reports whether p is a known partner.
func (p Partner) Valid() bool { return p == Partner1 || p == Partner2 || p == Pooled }

// Medium is the custody type of an account.
type Medium string

const (
	Cash    Medium = "cash"
	Digital Medium = "digital"
)

// Mediums lists the known mediums in display order.
var Mediums = []Medium{Cash, Digital}

// Valid reports whether m is a known medium.
func (m Medium) Valid() bool { return m == Cash || m == Digital }

// AccountKey identifies a custody account, encoded as "partner_medium".
type AccountKey struct {
	Partner Partner
	Medium  Medium
}

// ParseAccountKey parses a "partner_medium" key. Case and surrounding spaces are ignored.
// It returns false if the key has not exactly two parts or if any part is unknown.
func ParseAccountKey(s string) (AccountKey, bool) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "_")
	if len(parts) != 2 {
		return AccountKey{}, false
	}
	return NewAccountKey(Partner(parts[0]), Medium(parts[1]))
}

// NewAccountKey validates a partner and a medium.
func NewAccountKey(p Partner, m Medium) (AccountKey, bool) {
	p = Partner(strings.ToLower(strings.TrimSpace(string(p))))
	m = Medium(strings.ToLower(strings.TrimSpace(string(m))))
	if !p.Valid() || !m.Valid() {
		return AccountKey{}, false
	}
	return AccountKey{Partner: p, Medium: m}, true
}

func (k AccountKey) String() string { return string(k.Partner) + "_" + string(k.Medium) }

// Legs references the four accounts of an arbitrage trade.
type Legs struct {
	Receive string `json:"receive,omitempty"` // receives the bought currency
	Pay     string `json:"pay,omitempty"`     // pays the purchase
	Deliver string `json:"deliver,omitempty"` // delivers the sale
	Collect string `json:"collect,omitempty"` // collects the sale proceeds
}

// MixedPayment is one share of a settlement split across several accounts.
type MixedPayment struct {
	Partner Partner
	Medium  Medium
	Amount  decimal.Decimal
}

// Movement is a single financial record. It is never modified once read.
type Movement struct {
	ID           uuid.UUID
	Date         date.Date
	Operation    Operation
	SubOperation SubOperation

	Amount        decimal.Decimal // in Currency
	Total         decimal.Decimal // in QuoteCurrency
	Currency      string
	QuoteCurrency string

	Account            string // "partner_medium"
	DestinationAccount string // for internal transfers

	// Arbitrage trades.
	Legs              Legs
	PurchaseTotal     decimal.Decimal
	SaleAmount        decimal.Decimal
	SaleTotal         decimal.Decimal
	SaleQuoteCurrency string

	MixedPayments []MixedPayment

	Commission         decimal.Decimal
	CommissionCurrency string

	// Lender loans.
	InterestRate *decimal.Decimal // annual percent, nil when absent
	LapseDays    int

	ClientID   string
	ClientName string
	Memo       string
}

// Is reports whether m has the given operation and sub-operation.
func (m Movement) Is(op Operation, sub SubOperation) bool {
	return m.Operation == op && m.SubOperation == sub
}

// SettlementCurrency is the currency the movement settles in: the quote currency, or the
// base currency when no quote currency is set.
func (m Movement) SettlementCurrency() string {
	if m.QuoteCurrency != "" {
		return m.QuoteCurrency
	}
	return m.Currency
}
