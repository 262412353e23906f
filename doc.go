// Package cambio derives the books of a currency-exchange desk from its movement records.
//
// A movement is an immutable fact: a currency bought or sold over the counter, a deposit on a
// current account, a partner contribution, an expense, a loan from a lender, an internal transfer
// between two custody accounts. The package never stores anything. It takes the complete
// collection of movements, replays it, and returns three independent derived views:
//   - Balances: who holds how much, per partner, medium (cash or digital) and currency.
//     Movements are first lowered into signed postings by Classify, then folded by Aggregate.
//   - Inventory: a weighted-average-cost position per traded currency, with realized profit
//     per quote currency and time-bucketed profit series.
//   - LenderReport: per lender and currency, running principal and simple interest accrued
//     day by day, with a snapshot after every movement.
//
// All derivations are pure functions of their inputs. Recoverable rule violations, such as
// selling more than the stock or over-withdrawing a lender, never abort a derivation: they are
// returned as Warning values next to the best-effort figures.
package cambio
