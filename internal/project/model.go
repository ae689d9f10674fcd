package project

import (
	"time"

	"github.com/shopspring/decimal"
)

// Project groups members and expenses and carries the settlement
// configuration: the single currency balances are expressed in and the
// number of fractional digits amounts are rounded to.
type Project struct {
	ID                 int64      `json:"id"`
	Name               string     `json:"name"`
	Description        *string    `json:"description,omitempty"`
	SettlementCurrency string     `json:"settlement_currency"`
	Precision          int32      `json:"precision"`
	CreatedAt          time.Time  `json:"created_at"`
	DeletedAt          *time.Time `json:"deleted_at,omitempty"`
}

// Member is a project roster entry, joined with the member's display name.
type Member struct {
	ProjectID int64     `json:"project_id"`
	MemberID  int64     `json:"member_id"`
	Name      string    `json:"name"`
	JoinedAt  time.Time `json:"joined_at"`
}

// RateOverride is a user-supplied exchange rate from a foreign currency
// directly into the project's settlement currency. It always takes
// precedence over the market rate table for that currency.
type RateOverride struct {
	ProjectID int64           `json:"project_id"`
	Currency  string          `json:"currency"`
	Rate      decimal.Decimal `json:"rate"`
	UpdatedAt time.Time       `json:"updated_at"`
}
