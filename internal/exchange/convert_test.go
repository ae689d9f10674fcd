package exchange

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func marketTable() Table {
	return Table{Rates: map[string]decimal.Decimal{
		"JPY": dec("150"),
		"TWD": dec("32"),
		"USD": dec("1"),
	}}
}

func TestConvert_Identity(t *testing.T) {
	// Identity must be exact, not rounded.
	amount := dec("21.33335")
	got := Convert(amount, "TWD", "TWD", marketTable(), nil, 2)
	assert.True(t, got.Equal(amount), "identity conversion must return the amount unchanged, got %s", got)
}

func TestConvert_RateRatio(t *testing.T) {
	tests := []struct {
		name      string
		amount    string
		from, to  string
		precision int32
		want      string
	}{
		{name: "jpy to twd", amount: "100", from: "JPY", to: "TWD", precision: 2, want: "21.33"},
		{name: "jpy to twd high precision", amount: "100", from: "JPY", to: "TWD", precision: 4, want: "21.3333"},
		{name: "twd to jpy", amount: "32", from: "TWD", to: "JPY", precision: 2, want: "150"},
		{name: "usd to twd", amount: "1", from: "USD", to: "TWD", precision: 2, want: "32"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Convert(dec(tt.amount), tt.from, tt.to, marketTable(), nil, tt.precision)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestConvert_MissingRateDegradesToIdentity(t *testing.T) {
	// An absent rate never errors; the unknown currency is treated as the base.
	got := Convert(dec("100"), "XXX", "TWD", marketTable(), nil, 2)
	assert.True(t, got.Equal(dec("3200")), "got %s", got)

	// Both sides unknown: rate is 1/1.
	got = Convert(dec("100"), "XXX", "YYY", Table{}, nil, 2)
	assert.True(t, got.Equal(dec("100")), "got %s", got)
}

func TestConvert_OverridePrecedence(t *testing.T) {
	overrides := Overrides{"JPY": dec("0.22")}

	// The market table says 32/150; the override must win.
	got := Convert(dec("100"), "JPY", "TWD", marketTable(), overrides, 2)
	assert.True(t, got.Equal(dec("22")), "got %s", got)

	// Currencies without an override still use the table.
	got = Convert(dec("1"), "USD", "TWD", marketTable(), overrides, 2)
	assert.True(t, got.Equal(dec("32")), "got %s", got)
}

func TestRate(t *testing.T) {
	assert.True(t, Rate("TWD", "TWD", marketTable()).Equal(dec("1")))
	assert.True(t, Rate("USD", "TWD", marketTable()).Equal(dec("32")))
	assert.True(t, Rate("XXX", "YYY", Table{}).Equal(dec("1")))

	jpyTwd := Rate("JPY", "TWD", marketTable())
	assert.Equal(t, "21.33", dec("100").Mul(jpyTwd).Round(2).String())
}
