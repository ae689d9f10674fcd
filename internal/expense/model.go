package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/expense/split"
)

// Expense is one recorded cost in a project. The amount is in the expense's
// own currency; conversion into the project's settlement currency happens
// only when balances are computed.
type Expense struct {
	ID          int64           `json:"id"`
	ProjectID   int64           `json:"project_id"`
	PayerID     int64           `json:"payer_id"`
	Description string          `json:"description"`
	Category    *string         `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SplitType   split.Type      `json:"split_type"`
	CreatedAt   time.Time       `json:"created_at"`
	DeletedAt   *time.Time      `json:"deleted_at,omitempty"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`

	Shares []*Share `json:"shares,omitempty"`
}

// Share is a persisted participant share: the slice of the expense one
// member is responsible for, in the expense's currency. Shares for an
// expense always sum to its amount; the split package guarantees that at
// allocation time.
type Share struct {
	ID        int64           `json:"id"`
	ExpenseID int64           `json:"expense_id"`
	MemberID  int64           `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`

	// Populated via JOIN
	MemberName string `json:"member_name,omitempty"`
}
