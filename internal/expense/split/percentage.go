package split

import (
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/money"
)

var hundred = decimal.NewFromInt(100)

// PercentageStrategy divides the expense according to a percentage per
// participant. Percentages must sum to 100; rounding drift on the computed
// amounts is absorbed by the last participant so the shares sum to the total.
type PercentageStrategy struct{}

// Type returns the split type identifier
func (s *PercentageStrategy) Type() Type {
	return TypePercentage
}

// Validate checks that every participant has a percentage in [0,100] and that
// the percentages sum to 100 within tolerance.
func (s *PercentageStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total.IsNegative() {
		return ErrNegativeAmount
	}

	sum := decimal.Zero
	for _, p := range participants {
		if p.Percentage == nil {
			return ErrMissingPercentage
		}
		if p.Percentage.IsNegative() || p.Percentage.GreaterThan(hundred) {
			return ErrPercentageOutOfRange
		}
		sum = sum.Add(*p.Percentage)
	}

	if !money.WithinTolerance(sum, hundred, money.ShareTolerance) {
		return ErrInvalidPercentages
	}
	return nil
}

// Allocate converts each percentage into an amount rounded to precision, then
// adjusts the last share so the total is covered exactly.
func (s *PercentageStrategy) Allocate(total decimal.Decimal, participants []Input, precision int32) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	shares := make([]Share, len(participants))
	allocated := decimal.Zero
	for i, p := range participants {
		amount := money.RoundTo(total.Mul(*p.Percentage).Div(hundred), precision)
		allocated = allocated.Add(amount)
		shares[i] = Share{MemberID: p.MemberID, Amount: amount}
	}

	drift := money.RoundTo(total, precision).Sub(allocated)
	if !drift.IsZero() {
		last := len(shares) - 1
		shares[last].Amount = shares[last].Amount.Add(drift)
	}

	return shares, nil
}
