package settlement

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceRow is one member's position on a project's balance sheet.
type BalanceRow struct {
	MemberID int64
	Name     string
	Paid     decimal.Decimal
	Share    decimal.Decimal
	Balance  decimal.Decimal
}

// BalanceSheet is the full balance projection for a project, recomputed from
// the live expense set on every request.
type BalanceSheet struct {
	ProjectID     int64
	Currency      string
	Precision     int32
	RateDate      time.Time
	UsingFallback bool
	Rows          []BalanceRow
}

// TransferRow is a Transfer joined with member names for display.
type TransferRow struct {
	FromID   int64
	FromName string
	ToID     int64
	ToName   string
	Amount   decimal.Decimal
}

// Plan is the settlement projection: the transfers that zero out a project's
// balances, plus the context needed to render them.
type Plan struct {
	ProjectID     int64
	Currency      string
	Precision     int32
	RateDate      time.Time
	UsingFallback bool
	// Outstanding is the total still to change hands: the sum of all
	// positive balances, which every transfer list must add up to.
	Outstanding decimal.Decimal
	Transfers   []TransferRow
}
