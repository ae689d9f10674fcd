package settlement

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/money"
)

// epsilon filters floating-point noise out of the balance vector. It is
// strictly smaller than the smallest displayable unit at any supported
// precision, so it never swallows a real cent-level balance.
var epsilon = decimal.New(1, -3) // 0.001

// Transfer is one directed payment instruction: From pays Amount to To.
// Transfers are never persisted; they are recomputed from the current
// balance vector on every request.
type Transfer struct {
	From   int64
	To     int64
	Amount decimal.Decimal
}

type party struct {
	id      int64
	balance decimal.Decimal
}

// Settle turns a net-balance vector into a small list of transfers that
// zeroes it out. Greedy largest-debtor/largest-creditor matching: not a
// provably minimal transaction count (that problem is NP-hard), but a
// deterministic and close approximation that emits at most
// debtors+creditors-1 transfers.
//
// Determinism contract: identical input produces a byte-identical transfer
// list. Debtors are processed most-negative first and creditors
// most-positive first, ties broken by member id ascending.
func Settle(balances map[int64]decimal.Decimal, precision int32) []Transfer {
	var debtors, creditors []party
	for id, b := range balances {
		switch {
		case b.LessThan(epsilon.Neg()):
			debtors = append(debtors, party{id: id, balance: b})
		case b.GreaterThan(epsilon):
			creditors = append(creditors, party{id: id, balance: b})
		}
	}

	sort.Slice(debtors, func(i, j int) bool {
		if !debtors[i].balance.Equal(debtors[j].balance) {
			return debtors[i].balance.LessThan(debtors[j].balance)
		}
		return debtors[i].id < debtors[j].id
	})
	sort.Slice(creditors, func(i, j int) bool {
		if !creditors[i].balance.Equal(creditors[j].balance) {
			return creditors[i].balance.GreaterThan(creditors[j].balance)
		}
		return creditors[i].id < creditors[j].id
	})

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owes := debtors[i].balance.Neg()
		owed := creditors[j].balance

		amount := decimal.Min(owes, owed)
		if amount.GreaterThan(epsilon) {
			transfers = append(transfers, Transfer{
				From:   debtors[i].id,
				To:     creditors[j].id,
				Amount: money.RoundTo(amount, precision),
			})
		}

		debtors[i].balance = debtors[i].balance.Add(amount)
		creditors[j].balance = creditors[j].balance.Sub(amount)

		if debtors[i].balance.Neg().LessThanOrEqual(epsilon) {
			i++
		}
		if creditors[j].balance.LessThanOrEqual(epsilon) {
			j++
		}
	}

	return transfers
}

// ConservationGap returns how far a balance vector is from summing to zero.
// The optimizer itself cannot tell caller bugs from rounding noise beyond
// epsilon; callers should treat a gap above tolerance as an upstream error.
func ConservationGap(balances map[int64]decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b)
	}
	return sum
}
