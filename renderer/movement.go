package renderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/etnz/cambio"
	md "github.com/nao1215/markdown"
)

// Movement renders a one line description of a movement.
func Movement(m cambio.Movement) string {
	amount := cambio.M(m.Amount.Abs(), m.Currency)
	total := cambio.M(m.Total.Abs(), m.SettlementCurrency())
	switch {
	case m.Is(cambio.OpTransactions, cambio.SubBuy):
		return fmt.Sprintf("Bought %s for %s", amount, total)
	case m.Is(cambio.OpTransactions, cambio.SubSell):
		return fmt.Sprintf("Sold %s for %s", amount, total)
	case m.Is(cambio.OpTransactions, cambio.SubArbitrage):
		return fmt.Sprintf("Arbitrage of %s", amount)
	case m.Is(cambio.OpInternal, cambio.SubTransfer):
		return fmt.Sprintf("Transferred %s from %s to %s", amount, m.Account, m.DestinationAccount)
	case m.Is(cambio.OpLenders, cambio.SubLoan):
		if m.InterestRate != nil {
			return fmt.Sprintf("Borrowed %s at %s%%", amount, m.InterestRate)
		}
		return fmt.Sprintf("Borrowed %s", amount)
	case m.Operation == cambio.OpLenders:
		return fmt.Sprintf("Paid back %s", amount)
	case m.Is(cambio.OpAdministrative, cambio.SubAdjustment):
		return fmt.Sprintf("Adjusted %s by %s", m.Account, cambio.M(m.Amount, m.Currency).SignedString())
	default:
		op := strings.ToLower(strings.ReplaceAll(string(m.Operation), "_", " "))
		sub := strings.ToLower(string(m.SubOperation))
		return strings.TrimSpace(fmt.Sprintf("%s %s %s", op, sub, amount))
	}
}

// MovementsMarkdown renders a list of movements as a table.
func MovementsMarkdown(movements []cambio.Movement, title string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1(title)
	if len(movements) == 0 {
		doc.PlainText("No movement.")
		return doc.String()
	}

	table := md.TableSet{
		Header: []string{"Date", "Operation", "Account", "Description", "Client"},
	}
	for _, m := range movements {
		account := m.Account
		if len(m.MixedPayments) > 0 {
			account = "mixed"
		}
		client := m.ClientName
		if client == "" {
			client = m.ClientID
		}
		table.Rows = append(table.Rows, []string{
			m.Date.String(),
			fmt.Sprintf("%s/%s", m.Operation, m.SubOperation),
			account,
			Movement(m),
			client,
		})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("%d movements.", len(movements)))
	return doc.String()
}
