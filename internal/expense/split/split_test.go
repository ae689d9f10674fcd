package split

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/divvyup/divvy/internal/money"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func inputs(ids ...int64) []Input {
	out := make([]Input, len(ids))
	for i, id := range ids {
		out[i] = Input{MemberID: id}
	}
	return out
}

func shareSum(shares []Share) decimal.Decimal {
	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Amount)
	}
	return sum
}

func TestEqualStrategy_RemainderGoesToFirstParticipant(t *testing.T) {
	s := &EqualStrategy{}

	shares, err := s.Allocate(dec("1000"), inputs(1, 2, 3), 2)
	require.NoError(t, err)
	require.Len(t, shares, 3)

	assert.Equal(t, "333.34", shares[0].Amount.StringFixed(2))
	assert.Equal(t, "333.33", shares[1].Amount.StringFixed(2))
	assert.Equal(t, "333.33", shares[2].Amount.StringFixed(2))
	assert.True(t, shareSum(shares).Equal(dec("1000")))
}

func TestEqualStrategy_ZeroPrecision(t *testing.T) {
	s := &EqualStrategy{}

	shares, err := s.Allocate(dec("1000"), inputs(1, 2, 3), 0)
	require.NoError(t, err)

	assert.Equal(t, "334", shares[0].Amount.String())
	assert.Equal(t, "333", shares[1].Amount.String())
	assert.Equal(t, "333", shares[2].Amount.String())
	assert.True(t, shareSum(shares).Equal(dec("1000")))
}

func TestEqualStrategy_SumIsExactAcrossPrecisions(t *testing.T) {
	s := &EqualStrategy{}
	totals := []string{"1000", "0.01", "7", "99.99", "123.4567", "1"}
	counts := []int{1, 2, 3, 6, 7, 11}

	for _, precision := range []int32{0, 2, 4} {
		for _, total := range totals {
			for _, count := range counts {
				ids := make([]int64, count)
				for i := range ids {
					ids[i] = int64(i + 1)
				}
				shares, err := s.Allocate(dec(total), inputs(ids...), precision)
				require.NoError(t, err)

				want := money.RoundTo(dec(total), precision)
				assert.True(t, shareSum(shares).Equal(want),
					"total=%s count=%d precision=%d: shares sum to %s, want %s",
					total, count, precision, shareSum(shares), want)
			}
		}
	}
}

func TestEqualStrategy_SingleParticipant(t *testing.T) {
	s := &EqualStrategy{}

	shares, err := s.Allocate(dec("42.50"), inputs(7), 2)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.True(t, shares[0].Amount.Equal(dec("42.50")))
}

func TestEqualStrategy_Invalid(t *testing.T) {
	s := &EqualStrategy{}

	_, err := s.Allocate(dec("100"), nil, 2)
	assert.ErrorIs(t, err, ErrNoParticipants)

	_, err = s.Allocate(dec("-1"), inputs(1), 2)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestExactStrategy_ShareMismatch(t *testing.T) {
	s := &ExactStrategy{}

	_, err := s.Allocate(dec("1000"), []Input{
		{MemberID: 1, Amount: decPtr("400")},
		{MemberID: 2, Amount: decPtr("400")},
	}, 2)

	var mismatch *ShareMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.True(t, mismatch.Sum.Equal(dec("800")))
	assert.True(t, mismatch.Total.Equal(dec("1000")))
	assert.Contains(t, mismatch.Error(), "800")
	assert.Contains(t, mismatch.Error(), "1000")
}

func TestExactStrategy_ValidShares(t *testing.T) {
	s := &ExactStrategy{}

	shares, err := s.Allocate(dec("1000"), []Input{
		{MemberID: 1, Amount: decPtr("600")},
		{MemberID: 2, Amount: decPtr("400")},
	}, 2)
	require.NoError(t, err)
	assert.True(t, shares[0].Amount.Equal(dec("600")))
	assert.True(t, shares[1].Amount.Equal(dec("400")))
}

func TestExactStrategy_ToleranceBoundary(t *testing.T) {
	s := &ExactStrategy{}

	// Off by exactly 0.01 is still acceptable.
	err := s.Validate(dec("100"), []Input{
		{MemberID: 1, Amount: decPtr("50")},
		{MemberID: 2, Amount: decPtr("49.99")},
	})
	assert.NoError(t, err)

	// Off by more than 0.01 is not.
	err = s.Validate(dec("100"), []Input{
		{MemberID: 1, Amount: decPtr("50")},
		{MemberID: 2, Amount: decPtr("49.98")},
	})
	var mismatch *ShareMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestExactStrategy_Invalid(t *testing.T) {
	s := &ExactStrategy{}

	_, err := s.Allocate(dec("100"), []Input{{MemberID: 1}}, 2)
	assert.ErrorIs(t, err, ErrMissingExactAmount)

	_, err = s.Allocate(dec("100"), []Input{
		{MemberID: 1, Amount: decPtr("-5")},
		{MemberID: 2, Amount: decPtr("105")},
	}, 2)
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func TestPercentageStrategy_Allocate(t *testing.T) {
	s := &PercentageStrategy{}

	shares, err := s.Allocate(dec("100"), []Input{
		{MemberID: 1, Percentage: decPtr("33.33")},
		{MemberID: 2, Percentage: decPtr("33.33")},
		{MemberID: 3, Percentage: decPtr("33.34")},
	}, 2)
	require.NoError(t, err)
	assert.True(t, shareSum(shares).Equal(dec("100")), "shares sum to %s", shareSum(shares))
}

func TestPercentageStrategy_Invalid(t *testing.T) {
	s := &PercentageStrategy{}

	_, err := s.Allocate(dec("100"), []Input{
		{MemberID: 1, Percentage: decPtr("60")},
		{MemberID: 2, Percentage: decPtr("50")},
	}, 2)
	assert.ErrorIs(t, err, ErrInvalidPercentages)

	_, err = s.Allocate(dec("100"), []Input{
		{MemberID: 1, Percentage: decPtr("120")},
	}, 2)
	assert.ErrorIs(t, err, ErrPercentageOutOfRange)

	_, err = s.Allocate(dec("100"), []Input{{MemberID: 1}}, 2)
	assert.ErrorIs(t, err, ErrMissingPercentage)
}

func TestFactory(t *testing.T) {
	f := NewFactory()

	for _, st := range []Type{TypeEqual, TypeExact, TypePercentage} {
		strategy, err := f.Create(st)
		require.NoError(t, err)
		assert.Equal(t, st, strategy.Type())
	}

	_, err := f.CreateFromString("SOMETHING_ELSE")
	assert.Error(t, err)
}
