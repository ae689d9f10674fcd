package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteBalances(t *testing.T) {
	var buf bytes.Buffer

	err := WriteBalances(&buf, "TWD", []BalanceLine{
		{Member: "Alice", Paid: "1000.00", Share: "333.34", Balance: "666.66"},
		{Member: "Bob", Paid: "0.00", Share: "333.33", Balance: "-333.33"},
	})
	require.NoError(t, err)

	want := "member,paid (TWD),share (TWD),balance (TWD)\n" +
		"Alice,1000.00,333.34,666.66\n" +
		"Bob,0.00,333.33,-333.33\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTransfers(t *testing.T) {
	var buf bytes.Buffer

	err := WriteTransfers(&buf, "TWD", []TransferLine{
		{From: "Bob", To: "Alice", Amount: "333.33"},
		{From: "Carol", To: "Alice", Amount: "333.33"},
	})
	require.NoError(t, err)

	want := "from,to,amount (TWD)\n" +
		"Bob,Alice,333.33\n" +
		"Carol,Alice,333.33\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTransfers_Empty(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteTransfers(&buf, "EUR", nil))
	assert.Equal(t, "from,to,amount (EUR)\n", buf.String())
}
