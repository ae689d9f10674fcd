package split

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/money"
)

// Type defines the type of split strategy
type Type string

const (
	TypeEqual      Type = "EQUAL"
	TypeExact      Type = "EXACT"
	TypePercentage Type = "PERCENTAGE"
)

// Input represents a participant in a split with optional values. The order
// of inputs is meaningful: the equal strategy assigns the rounding remainder
// to the first participant, so callers must pass a stable order (selection
// order).
type Input struct {
	MemberID   int64            `json:"member_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`     // For EXACT split
	Percentage *decimal.Decimal `json:"percentage,omitempty"` // For PERCENTAGE split
}

// Share is the allocated amount for a single participant. Shares cover every
// participant including the payer; the payer's own share is what they owe
// against the full amount they paid.
type Share struct {
	MemberID int64           `json:"member_id"`
	Amount   decimal.Decimal `json:"amount"`
}

// Strategy is the interface that all split strategies must implement
type Strategy interface {
	// Allocate computes the share amounts for all participants. The shares
	// always sum to the total (rounded to precision) within tolerance.
	Allocate(total decimal.Decimal, participants []Input, precision int32) ([]Share, error)

	// Type returns the type identifier for this strategy
	Type() Type

	// Validate checks if the inputs are valid for this strategy
	Validate(total decimal.Decimal, participants []Input) error
}

// Factory creates split strategies based on the requested type
type Factory struct{}

// NewFactory creates a new factory instance
func NewFactory() *Factory {
	return &Factory{}
}

// Create returns the appropriate strategy implementation based on the type
func (f *Factory) Create(splitType Type) (Strategy, error) {
	switch splitType {
	case TypeEqual:
		return &EqualStrategy{}, nil
	case TypeExact:
		return &ExactStrategy{}, nil
	case TypePercentage:
		return &PercentageStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown split type: %s", splitType)
	}
}

// CreateFromString creates a strategy from a string type (useful for API requests)
func (f *Factory) CreateFromString(splitType string) (Strategy, error) {
	return f.Create(Type(splitType))
}

var (
	ErrNoParticipants       = errors.New("at least one participant is required")
	ErrNegativeAmount       = errors.New("amounts cannot be negative")
	ErrMissingExactAmount   = errors.New("exact amount required for all participants")
	ErrMissingPercentage    = errors.New("percentage value required for all participants")
	ErrPercentageOutOfRange = errors.New("percentage must be between 0 and 100")
	ErrInvalidPercentages   = errors.New("percentages must sum to 100")
)

// ShareMismatchError is returned when custom shares do not sum to the expense
// total within tolerance. It carries both sides so the caller can render
// "allocated X of Y, off by Z" instead of silently accepting the gap.
type ShareMismatchError struct {
	Sum   decimal.Decimal
	Total decimal.Decimal
}

func (e *ShareMismatchError) Error() string {
	return fmt.Sprintf("shares sum to %s but expense total is %s (off by %s)",
		e.Sum, e.Total, e.Total.Sub(e.Sum))
}

// checkShareSum validates that a computed share sum matches the total within
// the fixed 0.01 tolerance, in settlement-currency units.
func checkShareSum(sum, total decimal.Decimal) error {
	if !money.WithinTolerance(sum, total, money.ShareTolerance) {
		return &ShareMismatchError{Sum: sum, Total: total}
	}
	return nil
}
