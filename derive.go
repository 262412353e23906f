package cambio

import (
	"cmp"
	"slices"
	"sync"
	"time"
)

// Views holds the three derived views of a movement collection.
type Views struct {
	Balances  Balances
	Inventory *Inventory
	Lenders   []*LenderReport
}

// Derive computes balances, inventory and lender reports from the same movements. The three
// derivations are independent and run concurrently; none of them modifies movements.
func Derive(movements []Movement, initial InitialBalances, now time.Time) *Views {
	v := new(Views)
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		v.Balances = NewBalances(movements, initial)
	}()
	go func() {
		defer wg.Done()
		v.Inventory = NewInventory(movements)
	}()
	go func() {
		defer wg.Done()
		v.Lenders = LenderSummaries(movements, now)
	}()
	wg.Wait()
	return v
}

// Warnings merges the warnings of every view, sorted by date.
func (v *Views) Warnings() []Warning {
	warnings := v.Inventory.Warnings()
	for _, r := range v.Lenders {
		warnings = append(warnings, r.Warnings()...)
	}
	slices.SortStableFunc(warnings, func(a, b Warning) int {
		switch {
		case a.Date.Before(b.Date):
			return -1
		case a.Date.After(b.Date):
			return 1
		}
		return cmp.Compare(a.Kind, b.Kind)
	})
	return warnings
}
