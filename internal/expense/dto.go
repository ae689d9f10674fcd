package expense

import (
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/expense/split"
)

// Participant is one entry of an expense's participant list. Order matters:
// the equal split assigns its rounding remainder to the first participant.
type Participant struct {
	MemberID   int64    `json:"member_id"`
	Amount     *float64 `json:"amount,omitempty"`     // For EXACT split
	Percentage *float64 `json:"percentage,omitempty"` // For PERCENTAGE split
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	ProjectID    int64          `json:"project_id" validate:"required"`
	PayerID      int64          `json:"payer_id" validate:"required"`
	Description  string         `json:"description" validate:"required,min=1,max=255"`
	Category     *string        `json:"category,omitempty"`
	Amount       float64        `json:"amount" validate:"required,gte=0"`
	Currency     string         `json:"currency" validate:"required,len=3"`
	SplitType    string         `json:"split_type" validate:"required,oneof=EQUAL EXACT PERCENTAGE"`
	Participants []*Participant `json:"participants" validate:"required,min=1"`
}

// UpdateExpenseRequest represents the request to update an expense's
// descriptive fields. Amount, currency and shares are immutable; recording
// a correction means deleting and re-creating the expense.
type UpdateExpenseRequest struct {
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=255"`
	Category    *string `json:"category,omitempty"`
}

// ShareResponse represents one participant share
type ShareResponse struct {
	MemberID   int64   `json:"member_id"`
	MemberName string  `json:"member_name,omitempty"`
	Amount     float64 `json:"amount"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	ProjectID   int64            `json:"project_id"`
	PayerID     int64            `json:"payer_id"`
	PayerName   string           `json:"payer_name,omitempty"`
	Description string           `json:"description"`
	Category    *string          `json:"category,omitempty"`
	Amount      float64          `json:"amount"`
	Currency    string           `json:"currency"`
	SplitType   string           `json:"split_type"`
	CreatedAt   string           `json:"created_at"`
	Shares      []*ShareResponse `json:"shares,omitempty"`
}

func decimalFromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// ToSplitInput converts an API participant to the split package's input type
func (p *Participant) ToSplitInput() split.Input {
	in := split.Input{MemberID: p.MemberID}
	if p.Amount != nil {
		d := decimalFromFloat(*p.Amount)
		in.Amount = &d
	}
	if p.Percentage != nil {
		d := decimalFromFloat(*p.Percentage)
		in.Percentage = &d
	}
	return in
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:          e.ID,
		ProjectID:   e.ProjectID,
		PayerID:     e.PayerID,
		PayerName:   e.PayerName,
		Description: e.Description,
		Category:    e.Category,
		Amount:      e.Amount.InexactFloat64(),
		Currency:    e.Currency,
		SplitType:   string(e.SplitType),
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, s := range e.Shares {
		resp.Shares = append(resp.Shares, &ShareResponse{
			MemberID:   s.MemberID,
			MemberName: s.MemberName,
			Amount:     s.Amount.InexactFloat64(),
		})
	}
	return resp
}
