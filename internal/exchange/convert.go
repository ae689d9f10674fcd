package exchange

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/money"
)

// Table is a snapshot of market exchange rates. Every entry is expressed
// relative to one common base ("units of base per 1 unit of this currency");
// the base itself never matters because rates are only ever used as
// rate(to)/rate(from) ratios.
type Table struct {
	Rates         map[string]decimal.Decimal `json:"rates"`
	Date          time.Time                  `json:"date"`
	UsingFallback bool                       `json:"using_fallback"`
}

// Overrides maps a foreign currency code to a user-supplied rate directly
// into the project's settlement currency. An override always wins over the
// market table for its currency.
type Overrides map[string]decimal.Decimal

var one = decimal.NewFromInt(1)

// rateOrIdentity looks a currency up in the table, degrading to 1 when the
// table has no entry. Rate availability is an external, possibly-degraded
// dependency; a missing rate means "treat as the base currency", flagged to
// the caller through Table.UsingFallback, never an error.
func rateOrIdentity(currency string, table Table) decimal.Decimal {
	if r, ok := table.Rates[currency]; ok && !r.IsZero() {
		return r
	}
	return one
}

// Rate returns the multiplicative rate from one currency to another,
// independent of any amount. Used for display lines like "1 USD = 32.00 TWD".
func Rate(from, to string, table Table) decimal.Decimal {
	if from == to {
		return one
	}
	return rateOrIdentity(to, table).Div(rateOrIdentity(from, table))
}

// Convert converts an amount from one currency to another, rounded to the
// given precision. Identity conversions return the amount untouched. When an
// override exists for the source currency it is applied directly as the rate
// into the target; otherwise the market-table ratio is used.
func Convert(amount decimal.Decimal, from, to string, table Table, overrides Overrides, precision int32) decimal.Decimal {
	if from == to {
		return amount
	}
	if rate, ok := overrides[from]; ok {
		return money.RoundTo(amount.Mul(rate), precision)
	}
	return money.RoundTo(amount.Mul(Rate(from, to, table)), precision)
}
