package split

import (
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/money"
)

// ExactStrategy lets each participant carry a caller-specified share. The
// shares must cover the whole total; a mismatch is rejected, never silently
// auto-corrected.
type ExactStrategy struct{}

// Type returns the split type identifier
func (s *ExactStrategy) Type() Type {
	return TypeExact
}

// Validate checks that every participant has a non-negative amount and that
// the amounts sum to the total within tolerance.
func (s *ExactStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total.IsNegative() {
		return ErrNegativeAmount
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.Amount == nil {
			return ErrMissingExactAmount
		}
		if p.Amount.IsNegative() {
			return ErrNegativeAmount
		}
		sum = sum.Add(*p.Amount)
	}

	return checkShareSum(sum, total)
}

// Allocate returns the specified amounts, rounded to precision.
func (s *ExactStrategy) Allocate(total decimal.Decimal, participants []Input, precision int32) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	for i, p := range participants {
		shares[i] = Share{MemberID: p.MemberID, Amount: money.RoundTo(*p.Amount, precision)}
	}

	return shares, nil
}
