package split

import (
	"github.com/shopspring/decimal"

	"github.com/divvyup/divvy/internal/money"
)

// EqualStrategy divides the expense evenly among all participants. When the
// division is not exact, the leftover after rounding lands on the first
// participant in caller order so the shares still sum to the total exactly.
type EqualStrategy struct{}

// Type returns the split type identifier
func (s *EqualStrategy) Type() Type {
	return TypeEqual
}

// Validate checks if the inputs are valid for an equal split
func (s *EqualStrategy) Validate(total decimal.Decimal, participants []Input) error {
	if len(participants) == 0 {
		return ErrNoParticipants
	}
	if total.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Allocate divides the total evenly. The remainder policy is deliberate and
// observable: round(total/count) per person, and whatever is left after
// multiplying back goes to participants[0].
func (s *EqualStrategy) Allocate(total decimal.Decimal, participants []Input, precision int32) ([]Share, error) {
	if err := s.Validate(total, participants); err != nil {
		return nil, err
	}

	count := decimal.NewFromInt(int64(len(participants)))
	perPerson := money.RoundTo(total.Div(count), precision)
	remainder := money.RoundTo(total.Sub(perPerson.Mul(count)), precision)

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := perPerson
		if i == 0 {
			amount = amount.Add(remainder)
		}
		shares[i] = Share{MemberID: p.MemberID, Amount: amount}
	}

	return shares, nil
}
