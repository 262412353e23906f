package cambio

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/cambio/date"
)

// Filter selects movements for display. Its zero value accepts everything.
// Filters never alter what the derivations compute.
type Filter struct {
	Partner Partner
	Medium  Medium
	Range   date.Range
	Lender  *Lender
}

// Match reports whether the movement passes every set criterion. Partner and medium match
// when any posting of the movement touches such an account.
func (f Filter) Match(m Movement) bool {
	if !f.Range.Contains(m.Date) {
		return false
	}
	if f.Lender != nil && !f.Lender.Matches(m) {
		return false
	}
	if f.Partner == "" && f.Medium == "" {
		return true
	}
	for _, p := range Classify(m) {
		if (f.Partner == "" || p.Account.Partner == f.Partner) && (f.Medium == "" || p.Account.Medium == f.Medium) {
			return true
		}
	}
	return false
}

// Apply returns the matching movements in their original order.
func (f Filter) Apply(movements []Movement) []Movement {
	var kept []Movement
	for _, m := range movements {
		if f.Match(m) {
			kept = append(kept, m)
		}
	}
	return kept
}

// Select returns the movements matched by a jsonpath expression evaluated on their JSON form.
// A bare filter such as `@.currency=="USD" && @.amount > 100` is wrapped as `$[?(...)]`.
func Select(movements []Movement, expr string) ([]Movement, error) {
	expr = strings.TrimSpace(expr)
	if !strings.HasPrefix(expr, "$") {
		expr = "$[?(" + expr + ")]"
	}
	eval, err := jsonpath.New(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", expr, err)
	}
	ctx := context.Background()

	var kept []Movement
	for _, m := range movements {
		raw, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("could not marshal movement %s: %w", m.ID, err)
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("could not unmarshal movement %s: %w", m.ID, err)
		}
		v, err := eval(ctx, []any{doc})
		if err != nil {
			// paths that do not exist on this movement simply do not match
			continue
		}
		if matched(v) {
			kept = append(kept, m)
		}
	}
	return kept, nil
}

func matched(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case []any:
		return len(v) > 0
	case bool:
		return v
	default:
		return true
	}
}
