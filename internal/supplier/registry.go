package supplier

import "github.com/pharmadocs/invoice-tabulator/internal/table"

// Known supplier ids, in registration order.
const (
	UnitedDrug = "united_drug"
	Genamed    = "genamed"
	Iskus      = "iskus"
	Feehily    = "feehily"
)

// PostProcessor adjusts a cleaned table for supplier quirks. Implementations
// must be idempotent and must not drop or reorder canonical columns.
type PostProcessor func(*table.Table) *table.Table

// Profile is the static per-supplier configuration. Profiles are built once
// at startup and never mutated.
type Profile struct {
	ID              string
	ExpectedColumns []string
	PromptTemplate  string
	FieldAliases    map[string]string
	PostProcess     PostProcessor
}

// Registry maps supplier ids to profiles with a guaranteed Unknown default.
type Registry struct {
	order    []string
	profiles map[string]*Profile
}

// NewRegistry builds the built-in supplier registry.
func NewRegistry() *Registry {
	r := &Registry{profiles: make(map[string]*Profile)}
	for _, p := range builtinProfiles() {
		r.order = append(r.order, p.ID)
		r.profiles[p.ID] = p
	}
	return r
}

// Lookup returns the profile for id, falling back to the Unknown profile for
// any unrecognized id. It never fails.
func (r *Registry) Lookup(id string) *Profile {
	if p, ok := r.profiles[id]; ok {
		return p
	}
	return r.profiles[Unknown]
}

// IDs returns the supplier ids in registration order.
func (r *Registry) IDs() []string {
	return append([]string(nil), r.order...)
}

func builtinProfiles() []*Profile {
	return []*Profile{
		{
			ID: UnitedDrug,
			ExpectedColumns: []string{
				"qty", "description", "pack", "price", "invoice_value",
				"invoice_number", "account_number", "invoice_date", "invoice_time",
				"invoice_type", "vat_code", "vat_rate_percent", "vat_amount",
				"total_amount", "your_ref",
			},
			PromptTemplate: unitedDrugPrompt,
			FieldAliases: map[string]string{
				"QTY":         "qty",
				"DESCRIPTION": "description",
				"PACK":        "pack",
				"PRICE":       "price",
				"INVOICE":     "invoice_value",
				"INVOICE NO.": "invoice_number",
				"ACCOUNT":     "account_number",
				"DATE":        "invoice_date",
				"TIME":        "invoice_time",
				"TYPE":        "invoice_type",
				"CODE":        "vat_code",
				"VAT%":        "vat_rate_percent",
				"VAT":         "vat_amount",
				"TOTAL":       "total_amount",
				"YOUR REF.":   "your_ref",
			},
			PostProcess: identityPostProcess,
		},
		{
			ID: Genamed,
			ExpectedColumns: []string{
				"qty", "description", "price", "invoice_value", "vat_amount",
				"total_amount", "invoice_number", "your_ref", "invoice_date",
				"vat_rate_percent", "batch", "expiry_date",
			},
			PromptTemplate: genamedPrompt,
			FieldAliases: map[string]string{
				"Quantity":      "qty",
				"Description":   "description",
				"Unit Price":    "price",
				"Amount":        "invoice_value",
				"VAT":           "vat_amount",
				"Total":         "total_amount",
				"Invoice No:":   "invoice_number",
				"PO Number:":    "your_ref",
				"Invoice Date:": "invoice_date",
				"VAT Rate":      "vat_rate_percent",
			},
			PostProcess: genamedPostProcess,
		},
		{
			ID: Iskus,
			ExpectedColumns: []string{
				"qty", "description", "pack", "price", "discount", "vat",
				"invoice_value", "invoice_number", "account_number", "invoice_date",
				"invoice_time", "invoice_type", "batch", "expiry_date", "our_ref",
				"your_ref", "delivery_no",
			},
			PromptTemplate: iskusPrompt,
			FieldAliases: map[string]string{
				"QTY":          "qty",
				"DESCRIPTION":  "description",
				"PACK":         "pack",
				"PRICE":        "price",
				"DISC":         "discount",
				"VAT":          "vat",
				"INVOICE":      "invoice_number",
				"ACCOUNT":      "account_number",
				"DATE":         "invoice_date",
				"TIME":         "invoice_time",
				"TYPE":         "invoice_type",
				"Batch:":       "batch",
				"Expiry Date:": "expiry_date",
				"Our Ref:":     "our_ref",
				"Your Ref:":    "your_ref",
				"Delivery No.": "delivery_no",
			},
			PostProcess: identityPostProcess,
		},
		{
			ID: Feehily,
			ExpectedColumns: []string{
				"qty", "description", "pack", "price", "invoice_value",
				"invoice_number", "account_number", "invoice_date", "invoice_time",
			},
			PromptTemplate: feehilyPrompt,
			FieldAliases: map[string]string{
				"Qty":         "qty",
				"Description": "description",
				"Pack":        "pack",
				"Price":       "price",
				"Value":       "invoice_value",
				"Invoice No":  "invoice_number",
				"Account No":  "account_number",
				"Date":        "invoice_date",
				"Time":        "invoice_time",
			},
			PostProcess: identityPostProcess,
		},
		{
			ID: Unknown,
			ExpectedColumns: []string{
				"qty", "description", "pack", "price", "discount", "vat",
				"invoice_value", "invoice_number", "account_number", "invoice_date",
				"invoice_time", "total_amount",
			},
			PromptTemplate: unknownPrompt,
			FieldAliases: map[string]string{
				"qty":            "qty",
				"description":    "description",
				"pack":           "pack",
				"price":          "price",
				"invoice_value":  "invoice_value",
				"invoice_number": "invoice_number",
				"account_number": "account_number",
				"invoice_date":   "invoice_date",
				"invoice_time":   "invoice_time",
			},
			PostProcess: identityPostProcess,
		},
	}
}

const unitedDrugPrompt = `You are analyzing a United Drug invoice. These invoices typically have the following structure:
1. Header with invoice number, account, date, time, reference numbers
2. Line items with QTY, PACK, DESCRIPTION, PRICE, and INVOICE value columns
3. Footer with VAT information and totals

Please extract the following:
- All product line items with QTY, DESCRIPTION, PACK, PRICE, and INVOICE value
- Invoice metadata (invoice number, account, date, time, reference numbers)
- VAT information and totals

Note these specific characteristics of United Drug invoices:
- Line items typically start after the "QTY PACK DESCRIPTION" header
- The invoice number is usually found in the top section labeled "Invoice No."
- Dates are in DD.MM.YYYY format
- Some values may be in parentheses to indicate credits`

const genamedPrompt = `You are analyzing a Genamed (NiAm Pharma) invoice. These invoices typically have the following structure:
1. Header with company information, invoice number, date and PO number
2. Line items with Unit, Description, Quantity, Unit Price, Amount, VAT and Total
3. Footer with totals and payment information

Please extract the following:
- All product line items with Quantity, Description, Unit Price, Amount, VAT and Total
- Invoice metadata (invoice number, date, PO number)
- Billing and shipping information

Note these specific characteristics of Genamed invoices:
- Line items may have detailed product descriptions over multiple lines
- Each line item often has batch numbers and expiry dates
- The invoice number is labeled as "Invoice No:"
- Dates are typically in DD-MM-YYYY format`

const iskusPrompt = `You are analyzing an Iskus Health invoice. These invoices typically have the following structure:
1. Header with invoice number, account, date, time, reference numbers
2. Line items with QTY, DESCRIPTION, PACK, PRICE, DISC, VAT, and INVOICE value
3. Batch numbers and expiry dates for each product
4. Footer with totals

Please extract the following:
- All product line items with QTY, DESCRIPTION, PACK, PRICE, and INVOICE value
- Batch numbers and expiry dates for each product
- Invoice metadata (invoice number, account, date, time, reference numbers)
- VAT information and totals

Note these specific characteristics of Iskus invoices:
- Line items include batch numbers and expiry dates directly under each product
- The invoice number is in the top section, usually a 9-digit number starting with "97"
- Dates are in DD.MM.YYYY format
- The "Our Ref:", "Your Ref:", and "Delivery No." fields contain important reference numbers`

const feehilyPrompt = `You are analyzing a Feehily's invoice. These invoices typically have the following structure:
1. Header with invoice number, customer details, date
2. Line items with Qty, Description, Pack, Price, and Value columns
3. Footer with totals

Please extract the following:
- All product line items with Qty, Description, Pack, Price, and Value
- Invoice metadata (invoice number, account, date)
- Totals and VAT information

Note that Feehily's invoices may have minimal formatting or be challenging to parse due to scan quality.`

const unknownPrompt = `You are analyzing an invoice from an unknown supplier. Please extract all structured data you can find, including:
1. All product line items with quantities, descriptions, and prices
2. Invoice metadata (invoice number, date, reference numbers)
3. Customer and supplier information
4. Totals, subtotals, and tax information

Pay special attention to tabular data, which likely represents the product line items.`
