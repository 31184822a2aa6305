package fallback

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInvoice = `Acme Pharma Ltd
12 Main Street
Dublin 4
Tel: 01-234-5678

Murphy Pharmacy
45 High Street
Cork

INVOICE
Invoice No: INV-1001
Date: 12/05/2023
PO Number: PO-778

QTY DESCRIPTION PRICE AMOUNT
2 Paracetamol 500mg 10.00 20.00
Batch: AB123 Expiry: 05/2026
4 Ibuprofen 200mg 2.50 10.00

Subtotal: 30.00
VAT: 6.90
Total: 36.90`

func TestParseFullInvoice(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	records := p.Parse(sampleInvoice)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "2", first["qty"])
	assert.Equal(t, "Paracetamol 500mg", first["description"])
	assert.Equal(t, "10.00", first["price"])
	assert.Equal(t, "20.00", first["invoice_value"])
	assert.Equal(t, "AB123", first["batch"])
	assert.Equal(t, "05/2026", first["expiry_date"])

	second := records[1]
	assert.Equal(t, "4", second["qty"])
	assert.Equal(t, "Ibuprofen 200mg", second["description"])
	assert.Equal(t, "2.50", second["price"])
	assert.Equal(t, "10.00", second["invoice_value"])

	// Shared fields repeat on every record.
	for _, rec := range records {
		assert.Equal(t, "Acme Pharma Ltd", rec["supplier_name"])
		assert.Equal(t, "12 Main Street, Dublin 4", rec["supplier_address"])
		assert.Equal(t, "01-234-5678", rec["supplier_tel"])
		assert.Equal(t, "Murphy Pharmacy", rec["customer_name"])
		assert.Equal(t, "45 High Street, Cork", rec["customer_address"])
		assert.Equal(t, "INV-1001", rec["invoice_number"])
		assert.Equal(t, "12/05/2023", rec["invoice_date"])
		assert.Equal(t, "PO-778", rec["po_number"])
		assert.Equal(t, "30.00", rec["subtotal"])
		assert.Equal(t, "6.90", rec["tax"])
	}
}

func TestParseEveryColumnPresent(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	records := p.Parse(sampleInvoice)
	require.NotEmpty(t, records)
	for _, col := range Columns {
		_, ok := records[0][col]
		assert.True(t, ok, col)
	}
}

func TestParseDerivesLineValueFromQtyAndPrice(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	text := strings.Join([]string{
		"Somewhere Ltd",
		"",
		"QTY DESCRIPTION PRICE AMOUNT",
		"5 Bandage Roll 4.00",
		"",
		"Total: 20.00",
	}, "\n")

	records := p.Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, "5", records[0]["qty"])
	assert.Equal(t, "Bandage Roll", records[0]["description"])
	assert.Equal(t, "4.00", records[0]["price"])
	assert.Equal(t, "20.00", records[0]["invoice_value"])
}

func TestParseStripsTrailingVATCode(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	text := strings.Join([]string{
		"Somewhere Ltd",
		"",
		"QTY DESCRIPTION PRICE AMOUNT",
		"2 Widget Deluxe A1 5.00 10.00",
		"",
		"Total: 10.00",
	}, "\n")

	records := p.Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, "Widget Deluxe", records[0]["description"])
	assert.Equal(t, "A1", records[0]["vat"])
}

func TestParseDoubleUnderscoreSeparator(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	text := strings.Join([]string{
		"Somewhere Ltd",
		"",
		"QTY DESCRIPTION PRICE AMOUNT",
		"10__Special Item 2.00 20.00",
		"",
		"Total: 20.00",
	}, "\n")

	records := p.Parse(text)
	require.Len(t, records, 1)
	assert.Equal(t, "10", records[0]["qty"])
	assert.Equal(t, "Special Item", records[0]["description"])
	assert.Equal(t, "2.00", records[0]["price"])
	assert.Equal(t, "20.00", records[0]["invoice_value"])
}

func TestParsePositionalItemDetection(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	// No column header line; items are found by shape alone.
	text := strings.Join([]string{
		"1 Alpha Product 2.00 2.00",
		"2 Beta Product 3.00 6.00",
		"Total: 8.00",
	}, "\n")

	records := p.Parse(text)
	require.Len(t, records, 2)
	assert.Equal(t, "Alpha Product", records[0]["description"])
	assert.Equal(t, "Beta Product", records[1]["description"])
}

func TestParseAlwaysYieldsOneRecordForNonEmptyText(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)

	records := p.Parse("just some words with no structure")
	require.Len(t, records, 1)
	assert.Equal(t, "just some words with no structure", records[0]["supplier_name"])
	assert.Equal(t, "", records[0]["qty"])
}

func TestParseBlankTextYieldsNothing(t *testing.T) {
	p := NewParser(DefaultConfig(), nil)
	assert.Empty(t, p.Parse(""))
	assert.Empty(t, p.Parse("   \n  \t "))
}
