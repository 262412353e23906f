package cambio

import (
	"iter"
	"sort"
)

// Journal holds movements in replay order: chronological, with movements of the same day
// kept in their original collection order.
type Journal struct {
	movements []Movement // sorted by date
}

// NewJournal sorts a copy of the movements into replay order. The input slice is left untouched.
func NewJournal(movements []Movement) *Journal {
	j := &Journal{movements: make([]Movement, len(movements))}
	copy(j.movements, movements)
	sort.SliceStable(j.movements, func(i, k int) bool {
		return j.movements[i].Date.Before(j.movements[k].Date)
	})
	return j
}

// Len returns the number of movements in the journal.
func (j *Journal) Len() int { return len(j.movements) }

// Movements returns an iterator over the movements in replay order.
func (j *Journal) Movements() iter.Seq[Movement] {
	return j.Select(func(Movement) bool { return true })
}

// Select returns an iterator over the movements accepted by keep, in replay order.
func (j *Journal) Select(keep func(Movement) bool) iter.Seq[Movement] {
	return func(yield func(Movement) bool) {
		for _, m := range j.movements {
			if !keep(m) {
				continue
			}
			if !yield(m) {
				return
			}
		}
	}
}
