// Package report renders balance and settlement projections into CSV for
// download. Columns mirror the API shapes; export must stay in lockstep with
// them because users archive these files.
package report

import (
	"encoding/csv"
	"io"
)

// BalanceLine is one member's row in a balance export.
type BalanceLine struct {
	Member  string
	Paid    string
	Share   string
	Balance string
}

// TransferLine is one payment instruction in a settlement export.
type TransferLine struct {
	From   string
	To     string
	Amount string
}

// WriteBalances writes a balance sheet as CSV. Amounts are pre-formatted
// strings so the engine's precision carries through untouched.
func WriteBalances(w io.Writer, currency string, lines []BalanceLine) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"member", "paid (" + currency + ")", "share (" + currency + ")", "balance (" + currency + ")"}); err != nil {
		return err
	}
	for _, l := range lines {
		if err := cw.Write([]string{l.Member, l.Paid, l.Share, l.Balance}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTransfers writes a settlement plan as CSV.
func WriteTransfers(w io.Writer, currency string, lines []TransferLine) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"from", "to", "amount (" + currency + ")"}); err != nil {
		return err
	}
	for _, l := range lines {
		if err := cw.Write([]string{l.From, l.To, l.Amount}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
