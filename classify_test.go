package cambio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func key(s string) AccountKey {
	k, ok := ParseAccountKey(s)
	if !ok {
		panic("invalid account key " + s)
	}
	return k
}

func TestParseAccountKey(t *testing.T) {
	tests := []struct {
		in     string
		want   AccountKey
		wantOK bool
	}{
		{"partner1_cash", AccountKey{Partner1, Cash}, true},
		{" Pooled_Digital ", AccountKey{Pooled, Digital}, true},
		{"partner2_digital", AccountKey{Partner2, Digital}, true},
		{"partner3_cash", AccountKey{}, false},
		{"partner1_bank", AccountKey{}, false},
		{"partner1", AccountKey{}, false},
		{"partner1_cash_extra", AccountKey{}, false},
		{"", AccountKey{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseAccountKey(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseAccountKey(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		m    Movement
		want []Posting
	}{
		{
			name: "buy pays out the traded currency",
			m:    newBuy("2025-03-01", "partner1_cash", "USD", 100, 1000, "PESO"),
			want: []Posting{{key("partner1_cash"), "USD", dec(-100)}},
		},
		{
			name: "sell takes in the traded currency",
			m:    newSell("2025-03-01", "partner2_digital", "USD", 40, 500, "PESO"),
			want: []Posting{{key("partner2_digital"), "USD", dec(40)}},
		},
		{
			name: "current account deposit",
			m:    Movement{Operation: OpCurrentAccounts, SubOperation: SubDeposit, Account: "pooled_cash", Currency: "EUR", Amount: dec(25)},
			want: []Posting{{key("pooled_cash"), "EUR", dec(25)}},
		},
		{
			name: "current account withdrawal",
			m:    Movement{Operation: OpCurrentAccounts, SubOperation: SubWithdrawal, Account: "pooled_cash", Currency: "EUR", Amount: dec(25)},
			want: []Posting{{key("pooled_cash"), "EUR", dec(-25)}},
		},
		{
			name: "partner loan is an inflow",
			m:    Movement{Operation: OpPartners, SubOperation: SubLoan, Account: "partner1_digital", Currency: "USD", Amount: dec(10)},
			want: []Posting{{key("partner1_digital"), "USD", dec(10)}},
		},
		{
			name: "partner other sub-operation is an outflow",
			m:    Movement{Operation: OpPartners, SubOperation: SubOperation("DIVIDEND"), Account: "partner1_digital", Currency: "USD", Amount: dec(10)},
			want: []Posting{{key("partner1_digital"), "USD", dec(-10)}},
		},
		{
			name: "positive adjustment",
			m:    Movement{Operation: OpAdministrative, SubOperation: SubAdjustment, Account: "pooled_cash", Currency: "PESO", Amount: dec(7)},
			want: []Posting{{key("pooled_cash"), "PESO", dec(7)}},
		},
		{
			name: "negative adjustment",
			m:    Movement{Operation: OpAdministrative, SubOperation: SubAdjustment, Account: "pooled_cash", Currency: "PESO", Amount: dec(-7)},
			want: []Posting{{key("pooled_cash"), "PESO", dec(-7)}},
		},
		{
			name: "expense",
			m:    Movement{Operation: OpAdministrative, SubOperation: SubExpense, Account: "pooled_cash", Currency: "PESO", Amount: dec(300)},
			want: []Posting{{key("pooled_cash"), "PESO", dec(-300)}},
		},
		{
			name: "lender withdrawal",
			m:    newRepayment("2025-03-01", "Ana", "USD", 80),
			want: []Posting{{key("pooled_cash"), "USD", dec(-80)}},
		},
		{
			name: "internal transfer",
			m:    Movement{Operation: OpInternal, SubOperation: SubTransfer, Account: "partner1_cash", DestinationAccount: "pooled_digital", Currency: "USD", Amount: dec(50)},
			want: []Posting{{key("partner1_cash"), "USD", dec(-50)}, {key("pooled_digital"), "USD", dec(50)}},
		},
		{
			name: "malformed account is skipped",
			m:    Movement{Operation: OpCurrentAccounts, SubOperation: SubDeposit, Account: "nobody", Currency: "USD", Amount: dec(5)},
			want: nil,
		},
		{
			name: "unknown operation posts nothing",
			m:    Movement{Operation: Operation("PAYROLL"), Account: "pooled_cash", Currency: "USD", Amount: dec(5)},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.m)
			if len(got) != len(tt.want) {
				t.Fatalf("Classify() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i].Account != tt.want[i].Account || got[i].Currency != tt.want[i].Currency || !got[i].Amount.Equal(tt.want[i].Amount) {
					t.Errorf("Classify()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClassify_Arbitrage(t *testing.T) {
	m := Movement{
		Operation:     OpTransactions,
		SubOperation:  SubArbitrage,
		Account:       "partner1_cash", // never posted
		Currency:      "USD",
		QuoteCurrency: "PESO",
		Amount:        dec(100),
		PurchaseTotal: dec(100000),
		SaleAmount:    dec(100500),
		SaleTotal:     dec(101),
		Legs: Legs{
			Receive: "partner1_digital",
			Pay:     "partner2_cash",
			Deliver: "pooled_cash",
			Collect: "pooled_digital",
		},
	}
	got := Classify(m)
	if len(got) != 4 {
		t.Fatalf("Classify() returned %d postings, want 4", len(got))
	}
	want := []Posting{
		{key("partner1_digital"), "USD", dec(100)},
		{key("partner2_cash"), "PESO", dec(-100000)},
		{key("pooled_cash"), "PESO", dec(-100500)},
		{key("pooled_digital"), "USD", dec(101)},
	}
	for i := range want {
		if got[i].Account != want[i].Account || got[i].Currency != want[i].Currency || !got[i].Amount.Equal(want[i].Amount) {
			t.Errorf("leg %d = %v, want %v", i, got[i], want[i])
		}
	}
	for _, p := range got {
		if p.Account == key("partner1_cash") {
			t.Errorf("arbitrage posted against its own account: %v", p)
		}
	}

	// a missing leg is skipped, the others still post
	m.Legs.Pay = "partner9_cash"
	if got := Classify(m); len(got) != 3 {
		t.Errorf("Classify() with a malformed leg returned %d postings, want 3", len(got))
	}
}

func TestClassify_MixedPayments(t *testing.T) {
	m := newBuy("2025-03-01", "partner1_cash", "USD", 300, 300, "")
	m.MixedPayments = []MixedPayment{
		{Partner: Partner1, Medium: Cash, Amount: dec(120)},
		{Partner: Partner2, Medium: Digital, Amount: dec(180)},
	}
	got := Classify(m)
	if len(got) != 2 {
		t.Fatalf("Classify() returned %d postings, want 2", len(got))
	}
	if got, want := got[0].Amount, dec(-120); !got.Equal(want) {
		t.Errorf("first payment = %v, want %v", got, want)
	}
	if got[1].Account != key("partner2_digital") || !got[1].Amount.Equal(dec(-180)) {
		t.Errorf("second payment = %v, want -180 on partner2_digital", got[1])
	}
	var total decimal.Decimal
	for _, p := range got {
		total = total.Add(p.Amount)
	}
	if want := dec(-300); !total.Equal(want) {
		t.Errorf("mixed payments total = %v, want %v", total, want)
	}
}

func TestClassify_TransferConservation(t *testing.T) {
	m := Movement{Operation: OpInternal, SubOperation: SubTransfer, Account: "partner2_cash", DestinationAccount: "partner1_digital", Currency: "EUR", Amount: dec(1234.56)}
	var sum decimal.Decimal
	for _, p := range Classify(m) {
		sum = sum.Add(p.Amount)
	}
	if !sum.IsZero() {
		t.Errorf("transfer postings sum to %v, want 0", sum)
	}
}
