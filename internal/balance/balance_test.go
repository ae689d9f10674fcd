package balance

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyup/divvy/internal/exchange"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAggregate_SingleCurrency(t *testing.T) {
	expenses := []Expense{
		{
			ID: 1, PayerID: 1, Amount: dec("1000"), Currency: "TWD",
			Shares: []Share{
				{MemberID: 1, Amount: dec("333.34")},
				{MemberID: 2, Amount: dec("333.33")},
				{MemberID: 3, Amount: dec("333.33")},
			},
		},
	}

	balances := Aggregate(expenses, []int64{1, 2, 3}, "TWD", exchange.Table{}, nil, 2)
	require.Len(t, balances, 3)

	assert.True(t, balances[1].Paid.Equal(dec("1000")))
	assert.True(t, balances[1].Share.Equal(dec("333.34")))
	assert.True(t, balances[1].Net.Equal(dec("666.66")))
	assert.True(t, balances[2].Net.Equal(dec("-333.33")))
	assert.True(t, balances[3].Net.Equal(dec("-333.33")))
}

func TestAggregate_ConvertsSharesProportionally(t *testing.T) {
	table := exchange.Table{Rates: map[string]decimal.Decimal{
		"JPY": dec("150"),
		"TWD": dec("32"),
	}}

	// 100 JPY converts to 21.33 TWD; the three shares must be carved out of
	// the converted total, not converted one by one.
	expenses := []Expense{
		{
			ID: 1, PayerID: 1, Amount: dec("100"), Currency: "JPY",
			Shares: []Share{
				{MemberID: 1, Amount: dec("33.34")},
				{MemberID: 2, Amount: dec("33.33")},
				{MemberID: 3, Amount: dec("33.33")},
			},
		},
	}

	balances := Aggregate(expenses, []int64{1, 2, 3}, "TWD", table, nil, 2)

	totalShare := balances[1].Share.Add(balances[2].Share).Add(balances[3].Share)
	assert.True(t, balances[1].Paid.Equal(dec("21.33")))
	// Per-expense shares sum to the converted total within rounding.
	assert.True(t, totalShare.Sub(dec("21.33")).Abs().LessThanOrEqual(dec("0.01")),
		"shares sum to %s, converted total is 21.33", totalShare)
}

func TestAggregate_CustomOverrideWins(t *testing.T) {
	table := exchange.Table{Rates: map[string]decimal.Decimal{"JPY": dec("150"), "TWD": dec("32")}}
	overrides := exchange.Overrides{"JPY": dec("0.25")}

	expenses := []Expense{
		{
			ID: 1, PayerID: 1, Amount: dec("100"), Currency: "JPY",
			Shares: []Share{{MemberID: 2, Amount: dec("100")}},
		},
	}

	balances := Aggregate(expenses, []int64{1, 2}, "TWD", table, overrides, 2)
	assert.True(t, balances[1].Paid.Equal(dec("25")), "got %s", balances[1].Paid)
	assert.True(t, balances[2].Share.Equal(dec("25")), "got %s", balances[2].Share)
}

func TestAggregate_ZeroActivityMemberStays(t *testing.T) {
	expenses := []Expense{
		{
			ID: 1, PayerID: 1, Amount: dec("50"), Currency: "TWD",
			Shares: []Share{
				{MemberID: 1, Amount: dec("25")},
				{MemberID: 2, Amount: dec("25")},
			},
		},
	}

	balances := Aggregate(expenses, []int64{1, 2, 3}, "TWD", exchange.Table{}, nil, 2)
	require.Contains(t, balances, int64(3))
	assert.True(t, balances[3].Paid.IsZero())
	assert.True(t, balances[3].Share.IsZero())
	assert.True(t, balances[3].Net.IsZero())
}

func TestAggregate_Conservation(t *testing.T) {
	table := exchange.Table{Rates: map[string]decimal.Decimal{
		"JPY": dec("150"), "TWD": dec("32"), "USD": dec("1"),
	}}

	expenses := []Expense{
		{ID: 1, PayerID: 1, Amount: dec("1000"), Currency: "JPY", Shares: []Share{
			{MemberID: 1, Amount: dec("333.34")},
			{MemberID: 2, Amount: dec("333.33")},
			{MemberID: 3, Amount: dec("333.33")},
		}},
		{ID: 2, PayerID: 2, Amount: dec("59.97"), Currency: "USD", Shares: []Share{
			{MemberID: 1, Amount: dec("19.99")},
			{MemberID: 2, Amount: dec("19.99")},
			{MemberID: 3, Amount: dec("19.99")},
		}},
		{ID: 3, PayerID: 3, Amount: dec("123.45"), Currency: "TWD", Shares: []Share{
			{MemberID: 2, Amount: dec("61.73")},
			{MemberID: 3, Amount: dec("61.72")},
		}},
	}

	balances := Aggregate(expenses, []int64{1, 2, 3}, "TWD", table, nil, 2)

	sum := decimal.Zero
	for _, b := range balances {
		sum = sum.Add(b.Net)
	}
	assert.True(t, sum.Abs().LessThanOrEqual(dec("0.01")), "balances sum to %s, want ~0", sum)
}

func TestAggregate_ZeroAmountExpense(t *testing.T) {
	expenses := []Expense{
		{ID: 1, PayerID: 1, Amount: decimal.Zero, Currency: "TWD", Shares: []Share{
			{MemberID: 1, Amount: decimal.Zero},
			{MemberID: 2, Amount: decimal.Zero},
		}},
	}

	balances := Aggregate(expenses, []int64{1, 2}, "TWD", exchange.Table{}, nil, 2)
	assert.True(t, balances[1].Net.IsZero())
	assert.True(t, balances[2].Net.IsZero())
}

func TestNetVector(t *testing.T) {
	balances := map[int64]MemberBalance{
		1: {Net: dec("10")},
		2: {Net: dec("-10")},
	}
	nets := NetVector(balances)
	assert.True(t, nets[1].Equal(dec("10")))
	assert.True(t, nets[2].Equal(dec("-10")))
}
