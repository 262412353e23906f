package cambio

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/cambio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movements are persisted as JSONL, one movement per line, with a stable field order so that
// files stay human-readable and git-friendly.

// lenientDecimal decodes a JSON number or numeric string. Anything else decodes to zero, so that
// one bad field never rejects a whole movement.
type lenientDecimal struct {
	decimal.Decimal
	valid bool
}

func (d *lenientDecimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
	} else {
		s = string(data)
	}
	s = strings.TrimSpace(s)
	v, err := decimal.NewFromString(s)
	if err != nil {
		d.Decimal, d.valid = decimal.Zero, false
		return nil
	}
	d.Decimal, d.valid = v, true
	return nil
}

// jsonMixedPayment is one mixed payment entry as persisted.
type jsonMixedPayment struct {
	Partner string         `json:"partner"`
	Medium  string         `json:"medium"`
	Amount  lenientDecimal `json:"amount"`
}

// jsonMovement is a movement as persisted.
type jsonMovement struct {
	ID                 string             `json:"id"`
	Date               date.Date          `json:"date"`
	Operation          string             `json:"operation"`
	SubOperation       string             `json:"subOperation"`
	Amount             lenientDecimal     `json:"amount"`
	Total              lenientDecimal     `json:"total"`
	Currency           string             `json:"currency"`
	QuoteCurrency      string             `json:"quoteCurrency"`
	Account            string             `json:"account"`
	DestinationAccount string             `json:"destinationAccount"`
	Legs               Legs               `json:"legs"`
	PurchaseTotal      lenientDecimal     `json:"purchaseTotal"`
	SaleAmount         lenientDecimal     `json:"saleAmount"`
	SaleTotal          lenientDecimal     `json:"saleTotal"`
	SaleQuoteCurrency  string             `json:"saleQuoteCurrency"`
	MixedPayments      []jsonMixedPayment `json:"mixedPayments"`
	Commission         lenientDecimal     `json:"commission"`
	CommissionCurrency string             `json:"commissionCurrency"`
	InterestRate       *lenientDecimal    `json:"interestRatePercentAnnual"`
	LapseDays          lenientDecimal     `json:"lapseDays"`
	ClientID           string             `json:"clientId"`
	ClientName         string             `json:"clientName"`
	Memo               string             `json:"memo"`
}

func (j jsonMovement) movement() Movement {
	m := Movement{
		Date:               j.Date,
		Operation:          Operation(strings.ToUpper(strings.TrimSpace(j.Operation))),
		SubOperation:       SubOperation(strings.ToUpper(strings.TrimSpace(j.SubOperation))),
		Amount:             j.Amount.Decimal,
		Total:              j.Total.Decimal,
		Currency:           strings.ToUpper(strings.TrimSpace(j.Currency)),
		QuoteCurrency:      strings.ToUpper(strings.TrimSpace(j.QuoteCurrency)),
		Account:            j.Account,
		DestinationAccount: j.DestinationAccount,
		Legs:               j.Legs,
		PurchaseTotal:      j.PurchaseTotal.Decimal,
		SaleAmount:         j.SaleAmount.Decimal,
		SaleTotal:          j.SaleTotal.Decimal,
		SaleQuoteCurrency:  strings.ToUpper(strings.TrimSpace(j.SaleQuoteCurrency)),
		Commission:         j.Commission.Decimal,
		CommissionCurrency: strings.ToUpper(strings.TrimSpace(j.CommissionCurrency)),
		LapseDays:          int(j.LapseDays.IntPart()),
		ClientID:           strings.TrimSpace(j.ClientID),
		ClientName:         j.ClientName,
		Memo:               j.Memo,
	}
	if id, err := uuid.Parse(j.ID); err == nil {
		m.ID = id
	}
	if j.InterestRate != nil && j.InterestRate.valid {
		rate := j.InterestRate.Decimal
		m.InterestRate = &rate
	}
	for _, p := range j.MixedPayments {
		m.MixedPayments = append(m.MixedPayments, MixedPayment{
			Partner: Partner(strings.ToLower(strings.TrimSpace(p.Partner))),
			Medium:  Medium(strings.ToLower(strings.TrimSpace(p.Medium))),
			Amount:  p.Amount.Decimal,
		})
	}
	return m
}

// UnmarshalJSON decodes a movement leniently: numeric fields that do not parse become zero and
// a missing or malformed id stays nil. A malformed date is an error.
func (m *Movement) UnmarshalJSON(data []byte) error {
	var j jsonMovement
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*m = j.movement()
	return nil
}

// MarshalJSON encodes a movement with a stable field order, omitting empty fields.
func (m Movement) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	if m.ID != uuid.Nil {
		w.Append("id", m.ID)
	}
	w.Append("date", m.Date)
	w.Append("operation", m.Operation)
	w.Optional("subOperation", m.SubOperation)
	w.Optional("amount", m.Amount)
	w.Optional("total", m.Total)
	w.Optional("currency", m.Currency)
	w.Optional("quoteCurrency", m.QuoteCurrency)
	w.Optional("account", m.Account)
	w.Optional("destinationAccount", m.DestinationAccount)
	w.Optional("legs", m.Legs)
	w.Optional("purchaseTotal", m.PurchaseTotal)
	w.Optional("saleAmount", m.SaleAmount)
	w.Optional("saleTotal", m.SaleTotal)
	w.Optional("saleQuoteCurrency", m.SaleQuoteCurrency)
	if len(m.MixedPayments) > 0 {
		payments := make([]*jsonObjectWriter, len(m.MixedPayments))
		for i, p := range m.MixedPayments {
			payments[i] = new(jsonObjectWriter)
			payments[i].Append("partner", p.Partner).Append("medium", p.Medium).Append("amount", p.Amount)
		}
		w.Append("mixedPayments", payments)
	}
	w.Optional("commission", m.Commission)
	w.Optional("commissionCurrency", m.CommissionCurrency)
	if m.InterestRate != nil {
		w.Append("interestRatePercentAnnual", *m.InterestRate)
	}
	w.Optional("lapseDays", m.LapseDays)
	w.Optional("clientId", m.ClientID)
	w.Optional("clientName", m.ClientName)
	w.Optional("memo", m.Memo)
	return w.MarshalJSON()
}

// DecodeMovements reads JSONL movements. Blank lines are skipped; a line that is not a JSON
// object is an error reported with its line number.
func DecodeMovements(r io.Reader) ([]Movement, error) {
	var movements []Movement
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var m Movement
		if err := json.Unmarshal(line, &m); err != nil {
			return nil, fmt.Errorf("parse error on line %d: %w", i, err)
		}
		movements = append(movements, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read movements: %w", err)
	}
	return movements, nil
}

// EncodeMovement writes a movement as a single JSONL line.
func EncodeMovement(w io.Writer, m Movement) error {
	line, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("could not encode movement %s: %w", m.ID, err)
	}
	line = append(line, '\n')
	if _, err := w.Write(line); err != nil {
		return fmt.Errorf("could not write movement %s: %w", m.ID, err)
	}
	return nil
}

// EncodeMovements writes movements as JSONL in their original order.
func EncodeMovements(w io.Writer, movements []Movement) error {
	for _, m := range movements {
		if err := EncodeMovement(w, m); err != nil {
			return err
		}
	}
	return nil
}

// DecodeInitialBalances reads the initial balance overlay, a JSON object keyed by
// "partner_medium-CURRENCY". Keys that do not parse are dropped; values decode leniently.
func DecodeInitialBalances(r io.Reader) (InitialBalances, error) {
	raw := make(map[string]lenientDecimal)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("could not decode initial balances: %w", err)
	}
	initial := make(InitialBalances, len(raw))
	for k, v := range raw {
		key, ok := ParseBalanceKey(k)
		if !ok {
			continue
		}
		initial[key.String()] = v.Decimal
	}
	return initial, nil
}
