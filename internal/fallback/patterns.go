package fallback

// Config holds the segmentation constants and ordered pattern lists driving
// the heuristic parser. Patterns are tried in order; the first match wins.
// All patterns are applied case-insensitively.
type Config struct {
	// SupplierHeaderLines is how many top lines form the supplier name.
	SupplierHeaderLines int
	// AddressMaxLines bounds the address block under the supplier name.
	AddressMaxLines int
	// ItemMinTokens is the minimum token count for a positional item line.
	ItemMinTokens int

	TelephonePatterns []string
	FaxPatterns       []string
	EmailPatterns     []string

	InvoiceNumberPatterns []string
	DatePatterns          []string
	PONumberPatterns      []string

	SubtotalPatterns []string
	TaxPatterns      []string
	TotalPatterns    []string

	CustomerSectionPatterns []string

	BatchPatterns  []string
	ExpiryPatterns []string

	SupplierSectionEndMarkers  []string
	InvoiceSectionStartMarkers []string
	ItemHeaderPatterns         []string
	ItemSectionEndMarkers      []string
	ItemQtyPatterns            []string
}

// DefaultConfig returns the built-in segmentation rules.
func DefaultConfig() Config {
	return Config{
		SupplierHeaderLines: 1,
		AddressMaxLines:     5,
		ItemMinTokens:       3,

		TelephonePatterns: []string{
			`Tel(?:ephone)?:?\s*([0-9\-\+\(\)\s]+)`,
			`Phone:?\s*([0-9\-\+\(\)\s]+)`,
			`T:?\s*([0-9\-\+\(\)\s]+)`,
		},
		FaxPatterns: []string{
			`Fax:?\s*([0-9\-\+\(\)\s]+)`,
			`F:?\s*([0-9\-\+\(\)\s]+)`,
		},
		EmailPatterns: []string{
			`Email:?\s*([^\s,]+@[^\s,]+\.[^\s,]+)`,
			`E-?mail:?\s*([^\s,]+@[^\s,]+\.[^\s,]+)`,
			`E:?\s*([^\s,]+@[^\s,]+\.[^\s,]+)`,
			`([^\s,]+@[^\s,]+\.[^\s,]+)`,
		},

		InvoiceNumberPatterns: []string{
			`Invoice\s*(?:#|No|Number|Reference)(?:\s*:|\.)?(?:\s*)([A-Za-z0-9\-\/]+)`,
			`Invoice:?\s*([A-Za-z0-9\-\/]+)`,
			`INV(?:OICE)?\s*(?:#|No|Number)?(?:\s*:|\.)?(?:\s*)([A-Za-z0-9\-\/]+)`,
		},
		DatePatterns: []string{
			`(?:Invoice)?\s*Date:?\s*(\d{1,2}[\/\-\.]\d{1,2}[\/\-\.]\d{2,4})`,
			`(?:Invoice)?\s*Date:?\s*(\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s,]*\d{2,4})`,
			`Date:?\s*(\d{1,2}[\/\-\.]\d{1,2}[\/\-\.]\d{2,4})`,
			`Date:?\s*(\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s,]*\d{2,4})`,
			`Date:?\s*((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2}(?:st|nd|rd|th)?[\s,]*\d{2,4})`,
		},
		PONumberPatterns: []string{
			`(?:Purchase\s*Order|PO|P\.O\.|Order)\s*(?:#|No|Number|Reference)?(?:\s*:|\.)?(?:\s*)([A-Za-z0-9\-\/]+)`,
			`(?:Your|Customer)\s*(?:PO|Order)(?:\s*#|No)?:?\s*([A-Za-z0-9\-\/]+)`,
		},

		SubtotalPatterns: []string{
			`(?:Sub[- ]?total|Total before tax):?\s*(?:£|\$|€|USD|GBP|EUR)?\s*(\d+(?:,\d+)*(?:\.\d+)?)`,
			`(?:Sub[- ]?total|Total before tax):?\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:£|\$|€|USD|GBP|EUR)?`,
		},
		TaxPatterns: []string{
			`(?:VAT|Tax|GST|HST):?\s*(?:£|\$|€|USD|GBP|EUR)?\s*(\d+(?:,\d+)*(?:\.\d+)?)`,
			`(?:VAT|Tax|GST|HST):?\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:£|\$|€|USD|GBP|EUR)?`,
		},
		TotalPatterns: []string{
			`(?:Total|Grand Total|Amount Due|Balance Due):?\s*(?:£|\$|€|USD|GBP|EUR)?\s*(\d+(?:,\d+)*(?:\.\d+)?)`,
			`(?:Total|Grand Total|Amount Due|Balance Due):?\s*(\d+(?:,\d+)*(?:\.\d+)?)\s*(?:£|\$|€|USD|GBP|EUR)?`,
		},

		CustomerSectionPatterns: []string{
			`(?:Customer|Client|Bill To|Ship To|Deliver To|Sold To|Recipient)(?:\s*:|\s+Information\s*:)?(.*?)(?:Invoice\s|Date\s|Order\s|Delivery|Payment)`,
			`(?:Customer|Client|Bill To|Ship To|Deliver To|Sold To|Recipient)(?:[:\s]*)([^\n]+(?:\n[^\n]+){0,5})`,
		},

		BatchPatterns: []string{
			`(?:Batch|Lot)(?:\s+No)?(?:[\s.:]*)([\w\-]+)`,
			`(?:Batch|Lot)(?:\s+Number)?(?:[\s.:]*)([\w\-]+)`,
		},
		ExpiryPatterns: []string{
			`(?:Expiry|Expiration|Exp|Expiry Date|Expiration Date)(?:[\s.:]*)([\d\/\-\.]+)`,
			`(?:Expiry|Expiration|Exp|Expiry Date|Expiration Date)(?:[\s.:]*)((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*[\s.]*\d{1,2}[\s,]*\d{2,4})`,
		},

		SupplierSectionEndMarkers: []string{
			"Email:", "Fax:", "Tel:", "VAT Reg",
		},
		InvoiceSectionStartMarkers: []string{
			"INVOICE", "Invoice", "Date:", "Invoice Number:",
		},
		ItemHeaderPatterns: []string{
			`QTY\s+DESCRIPTION\s+(?:UNIT\s+)?PRICE\s+AMOUNT`,
			`QUANTITY\s+ITEM\s+(?:UNIT\s+)?PRICE\s+(?:DISC\s+)?(?:VAT\s+)?AMOUNT`,
			`QTY\s+ITEM\s+(?:UNIT\s+)?PRICE\s+(?:DISC\s+)?(?:VAT\s+)?AMOUNT`,
		},
		ItemSectionEndMarkers: []string{
			"SUBTOTAL", "TOTAL", "VAT", "TAX",
		},
		ItemQtyPatterns: []string{
			`^\s*(\d+(?:\.\d+)?)\s+`,
			`^\s*(\d+)__`,
		},
	}
}
