package cambio

import (
	"fmt"

	"github.com/etnz/cambio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WarningKind classifies a recoverable business-rule violation.
type WarningKind string

const (
	// InsufficientStock is raised when a sale exceeds the quantity in stock.
	InsufficientStock WarningKind = "insufficient-stock"
	// Overdrawn is raised when a lender withdrawal exceeds principal and interest.
	Overdrawn WarningKind = "overdrawn"
)

// Warning records a movement that was applied with clamped, best-effort values.
type Warning struct {
	Kind     WarningKind
	Movement uuid.UUID
	Date     date.Date
	Currency string
	Excess   decimal.Decimal // the part that could not be covered
	Message  string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s %s: %s", w.Date, w.Kind, w.Message)
}
