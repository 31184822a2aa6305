package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadocs/invoice-tabulator/internal/common"
)

func TestClean(t *testing.T) {
	in := New(" QTY ", "Description", "extra")
	in.Append(Row{" QTY ": "2", "Description": "Widget", "extra": "drop me"})

	out, err := Clean(in, []string{"qty", "description", "price"})
	require.NoError(t, err)

	// Exactly the expected columns, in order.
	assert.Equal(t, []string{"qty", "description", "price"}, out.Columns)
	assert.Equal(t, "2", out.Get(0, "qty"))
	assert.Equal(t, "Widget", out.Get(0, "description"))

	// Missing expected columns come back empty; extras are gone.
	assert.Equal(t, "", out.Get(0, "price"))
	assert.False(t, out.HasColumn("extra"))
}

func TestCleanNullLikeCells(t *testing.T) {
	in := New("qty", "description")
	in.Append(Row{"qty": "nan", "description": "None"})

	out, err := Clean(in, []string{"qty", "description"})
	require.NoError(t, err)
	assert.Equal(t, "", out.Get(0, "qty"))
	assert.Equal(t, "", out.Get(0, "description"))
}

func TestCleanNormalizesDateAndTime(t *testing.T) {
	in := New("invoice_date", "invoice_time")
	in.Append(Row{"invoice_date": "12/05/2023", "invoice_time": "14:30"})
	in.Append(Row{"invoice_date": "unknown", "invoice_time": "garbage"})

	out, err := Clean(in, []string{"invoice_date", "invoice_time"})
	require.NoError(t, err)

	assert.Equal(t, "12.05.2023", out.Get(0, "invoice_date"))
	assert.Equal(t, "14:30:00", out.Get(0, "invoice_time"))
	assert.Equal(t, "", out.Get(1, "invoice_date"))
	assert.Equal(t, "", out.Get(1, "invoice_time"))
}

func TestCleanEmptyTableFails(t *testing.T) {
	_, err := Clean(nil, []string{"qty"})
	assert.ErrorIs(t, err, common.ErrEmptyResult)

	_, err = Clean(New("qty"), []string{"qty"})
	assert.ErrorIs(t, err, common.ErrEmptyResult)
}

func TestCleanIsIdempotent(t *testing.T) {
	expected := []string{"qty", "description", "invoice_date"}

	in := New("qty", "description", "invoice_date")
	in.Append(Row{"qty": "1", "description": "Widget", "invoice_date": "12/05/2023"})

	once, err := Clean(in, expected)
	require.NoError(t, err)
	twice, err := Clean(once, expected)
	require.NoError(t, err)

	assert.Equal(t, once.Columns, twice.Columns)
	require.Equal(t, once.Len(), twice.Len())
	for i := range once.Rows {
		assert.Equal(t, once.Rows[i], twice.Rows[i])
	}
}

func TestCleanDuplicateHeadersFirstWins(t *testing.T) {
	in := New("qty", "QTY")
	in.Append(Row{"qty": "first", "QTY": "second"})

	out, err := Clean(in, []string{"qty"})
	require.NoError(t, err)
	assert.Equal(t, "first", out.Get(0, "qty"))
}
