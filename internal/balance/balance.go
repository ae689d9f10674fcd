// Package balance folds a project's expense history into one net position
// per member, normalizing every amount into the project's settlement
// currency first.
package balance

import (
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/exchange"
	"github.com/divvyup/divvy/internal/money"
)

// Share pairs a member with the slice of an expense they are responsible for,
// in the expense's original currency.
type Share struct {
	MemberID int64
	Amount   decimal.Decimal
}

// Expense is the snapshot of one recorded cost the aggregator consumes.
// Callers pass only live (non-deleted) expenses.
type Expense struct {
	ID       int64
	PayerID  int64
	Amount   decimal.Decimal
	Currency string
	Shares   []Share
}

// MemberBalance is a member's aggregate position in the settlement currency.
// Net is Paid minus Share: positive means others owe them, negative means
// they owe others.
type MemberBalance struct {
	Paid  decimal.Decimal
	Share decimal.Decimal
	Net   decimal.Decimal
}

// Aggregate computes the per-member balances for a project. Each expense
// total is converted into the settlement currency once; participant shares
// are converted proportionally off that converted total
// (convertedShare = convertedTotal * share/total) so a single expense's
// shares still sum exactly to its converted total under rounding.
//
// Every member in the roster appears in the result, with a zero balance when
// they took part in nothing; a settlement view needs to show them as already
// settled rather than dropping them.
func Aggregate(expenses []Expense, roster []int64, settlementCurrency string, table exchange.Table, overrides exchange.Overrides, precision int32) map[int64]MemberBalance {
	paid := make(map[int64]decimal.Decimal)
	owed := make(map[int64]decimal.Decimal)

	for _, id := range roster {
		paid[id] = decimal.Zero
		owed[id] = decimal.Zero
	}

	for _, e := range expenses {
		converted := exchange.Convert(e.Amount, e.Currency, settlementCurrency, table, overrides, precision)
		paid[e.PayerID] = paid[e.PayerID].Add(converted)

		for _, s := range e.Shares {
			var share decimal.Decimal
			if e.Amount.IsZero() {
				share = decimal.Zero
			} else {
				share = converted.Mul(s.Amount).Div(e.Amount)
			}
			owed[s.MemberID] = owed[s.MemberID].Add(share)
		}
	}

	// Expenses can reference members outside the supplied roster; keep them.
	ids := make(map[int64]struct{}, len(paid)+len(owed))
	for id := range paid {
		ids[id] = struct{}{}
	}
	for id := range owed {
		ids[id] = struct{}{}
	}

	balances := make(map[int64]MemberBalance, len(ids))
	for id := range ids {
		p := money.RoundTo(paid[id], precision)
		o := money.RoundTo(owed[id], precision)
		balances[id] = MemberBalance{Paid: p, Share: o, Net: p.Sub(o)}
	}

	return balances
}

// NetVector reduces balances to the memberID -> net mapping the settlement
// optimizer consumes.
func NetVector(balances map[int64]MemberBalance) map[int64]decimal.Decimal {
	nets := make(map[int64]decimal.Decimal, len(balances))
	for id, b := range balances {
		nets[id] = b.Net
	}
	return nets
}
