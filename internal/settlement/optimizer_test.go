package settlement

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func transferSum(transfers []Transfer) decimal.Decimal {
	sum := decimal.Zero
	for _, tr := range transfers {
		sum = sum.Add(tr.Amount)
	}
	return sum
}

func TestSettle_TwoDebtorsOneCreditor(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("1000"),
		2: dec("-500"),
		3: dec("-500"),
	}

	transfers := Settle(balances, 2)
	require.Len(t, transfers, 2)

	// All money flows to the sole creditor and totals exactly 1000.
	for _, tr := range transfers {
		assert.Equal(t, int64(1), tr.To)
		assert.True(t, tr.Amount.Equal(dec("500")))
	}
	assert.True(t, transferSum(transfers).Equal(dec("1000")))

	// Equal debts tie-break by member id.
	assert.Equal(t, int64(2), transfers[0].From)
	assert.Equal(t, int64(3), transfers[1].From)
}

func TestSettle_TwoByTwo(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("300"),
		2: dec("200"),
		3: dec("-250"),
		4: dec("-250"),
	}

	transfers := Settle(balances, 2)
	assert.LessOrEqual(t, len(transfers), 3)
	assert.True(t, transferSum(transfers).Equal(dec("500")))

	// Largest debtor pairs with largest creditor first; ties by id.
	require.NotEmpty(t, transfers)
	assert.Equal(t, int64(3), transfers[0].From)
	assert.Equal(t, int64(1), transfers[0].To)
	assert.True(t, transfers[0].Amount.Equal(dec("250")))
}

func TestSettle_NoiseBelowEpsilon(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("0.0005"),
		2: dec("-0.0005"),
	}

	transfers := Settle(balances, 2)
	assert.Empty(t, transfers)
}

func TestSettle_EmptyAndSingle(t *testing.T) {
	assert.Empty(t, Settle(nil, 2))
	assert.Empty(t, Settle(map[int64]decimal.Decimal{1: decimal.Zero}, 2))
	// A lone creditor with no debtor to pay them yields nothing.
	assert.Empty(t, Settle(map[int64]decimal.Decimal{1: dec("10")}, 2))
}

func TestSettle_Deterministic(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("120.55"),
		2: dec("-60.25"),
		3: dec("-30.10"),
		4: dec("-30.20"),
		5: dec("73.30"),
		6: dec("-73.30"),
	}

	first := Settle(balances, 2)
	for run := 0; run < 20; run++ {
		again := Settle(map[int64]decimal.Decimal{
			1: dec("120.55"),
			2: dec("-60.25"),
			3: dec("-30.10"),
			4: dec("-30.20"),
			5: dec("73.30"),
			6: dec("-73.30"),
		}, 2)
		require.Equal(t, len(first), len(again))
		for k := range first {
			assert.Equal(t, first[k].From, again[k].From)
			assert.Equal(t, first[k].To, again[k].To)
			assert.True(t, first[k].Amount.Equal(again[k].Amount))
		}
	}
}

func TestSettle_ConservationAndCountBound(t *testing.T) {
	balances := map[int64]decimal.Decimal{
		1: dec("37.12"),
		2: dec("-12.40"),
		3: dec("99.99"),
		4: dec("-80.71"),
		5: dec("-44.00"),
	}

	positives := decimal.Zero
	debtors, creditors := 0, 0
	for _, b := range balances {
		if b.IsPositive() {
			positives = positives.Add(b)
			creditors++
		} else if b.IsNegative() {
			debtors++
		}
	}

	transfers := Settle(balances, 2)
	assert.True(t, transferSum(transfers).Equal(positives),
		"transfers sum to %s, positive balances sum to %s", transferSum(transfers), positives)
	assert.LessOrEqual(t, len(transfers), debtors+creditors-1)

	// Every emitted amount is positive and rounded.
	for _, tr := range transfers {
		assert.True(t, tr.Amount.IsPositive())
		assert.True(t, tr.Amount.Equal(tr.Amount.Round(2)))
	}
}

func TestConservationGap(t *testing.T) {
	assert.True(t, ConservationGap(map[int64]decimal.Decimal{
		1: dec("10"), 2: dec("-10"),
	}).IsZero())

	gap := ConservationGap(map[int64]decimal.Decimal{1: dec("10"), 2: dec("-9")})
	assert.True(t, gap.Equal(dec("1")))
}
