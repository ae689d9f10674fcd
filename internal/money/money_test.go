package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundTo(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		precision int32
		want      string
	}{
		{name: "round half up", value: "2.005", precision: 2, want: "2.01"},
		{name: "round half up negative", value: "-2.005", precision: 2, want: "-2.01"},
		{name: "round down", value: "21.3333", precision: 2, want: "21.33"},
		{name: "zero precision", value: "333.5", precision: 0, want: "334"},
		{name: "zero precision negative", value: "-333.5", precision: 0, want: "-334"},
		{name: "already exact", value: "100.00", precision: 2, want: "100"},
		{name: "high precision", value: "0.123456789", precision: 8, want: "0.12345679"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RoundTo(decimal.RequireFromString(tt.value), tt.precision)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"RoundTo(%s, %d) = %s, want %s", tt.value, tt.precision, got, tt.want)
		})
	}
}

func TestWithinTolerance(t *testing.T) {
	tol := decimal.RequireFromString("0.01")

	assert.True(t, WithinTolerance(decimal.RequireFromString("100.00"), decimal.RequireFromString("100.01"), tol))
	assert.True(t, WithinTolerance(decimal.RequireFromString("100.01"), decimal.RequireFromString("100.00"), tol))
	assert.False(t, WithinTolerance(decimal.RequireFromString("100.00"), decimal.RequireFromString("100.02"), tol))
	assert.True(t, WithinTolerance(decimal.Zero, decimal.Zero, tol))
}

func TestSum(t *testing.T) {
	values := []decimal.Decimal{
		decimal.RequireFromString("333.34"),
		decimal.RequireFromString("333.33"),
		decimal.RequireFromString("333.33"),
	}
	assert.True(t, Sum(values).Equal(decimal.RequireFromString("1000")))
	assert.True(t, Sum(nil).Equal(decimal.Zero))
}
