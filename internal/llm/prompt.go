package llm

import "strings"

// columnDescriptions maps every canonical column to the wording used in the
// extraction prompt.
var columnDescriptions = map[string]string{
	"qty":              "Quantity of items, numeric value only",
	"description":      "Description of the item or product",
	"pack":             "Package size or unit, text value",
	"price":            "Unit price, numeric value only",
	"discount":         "Discount amount or percentage if applicable",
	"vat":              "VAT for this specific item",
	"invoice_value":    "Value of this line item",
	"invoice_number":   "Unique invoice identifier, format exactly as shown on invoice",
	"account_number":   "Customer account number",
	"invoice_date":     "Date of invoice in DD.MM.YYYY format only",
	"invoice_time":     "Time of invoice in HH:MM:SS format only",
	"invoice_type":     "Type of invoice (e.g., Original, Credit)",
	"handled_by":       "Name of person who handled the invoice",
	"our_ref":          "Supplier's reference number",
	"delivery_no":      "Delivery note number",
	"your_ref":         "Customer's reference number",
	"supplier_name":    "Name of the supplier/vendor",
	"supplier_address": "Full address of the supplier",
	"supplier_tel":     "Supplier telephone number",
	"supplier_fax":     "Supplier fax number",
	"supplier_email":   "Supplier email address",
	"customer_name":    "Name of the customer",
	"customer_address": "Full address of the customer",
	"goods_value":      "Value of goods excluding tax",
	"vat_code":         "VAT code identifier",
	"vat_rate_percent": "VAT rate as a percentage",
	"vat_amount":       "Total VAT amount on the invoice",
	"total_amount":     "Total amount including tax",
	"batch":            "Batch number if applicable",
	"expiry_date":      "Expiry date in DD.MM.YYYY format if applicable",
}

// DescribeColumns attaches the canonical description to each column name.
func DescribeColumns(names []string) []ColumnSpec {
	out := make([]ColumnSpec, 0, len(names))
	for _, n := range names {
		out = append(out, ColumnSpec{Name: n, Description: columnDescriptions[n]})
	}
	return out
}

// BuildSystemPrompt composes the system message: supplier guidance, the
// requested columns with descriptions, and the CSV formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	cols := make([]string, 0, len(req.Columns))
	for _, c := range req.Columns {
		cols = append(cols, c.Name+" ("+c.Description+")")
	}

	parts := []string{
		"You are a specialized invoice data extraction assistant. Your task is to analyze invoice text and extract it as CSV data.",
		"",
		req.Guidance,
		"",
		"Extract only the following columns (provide empty strings for unavailable data):",
		strings.Join(cols, ", "),
		"",
		"Important rules for extraction:",
		"1. Extract the data as a valid CSV format with headers matching EXACTLY the column names listed above.",
		"2. Do NOT include any explanations, markdown formatting or anything other than the CSV data.",
		"3. If multiple line items are found, include all of them as separate rows sharing invoice metadata.",
		"4. Normalize dates to DD.MM.YYYY format and times to HH:MM:SS format.",
		"5. For any field not found in the invoice, use an empty string.",
		"6. For special characters in CSV, follow standard CSV escaping rules.",
		"7. For multi-line text in a cell, escape newlines properly.",
		"8. Include all line items on the invoice, preserving numerical values exactly as they appear.",
		"",
		"YOUR RESPONSE MUST CONTAIN ONLY THE CSV DATA AND NOTHING ELSE.",
	}
	return strings.Join(parts, "\n")
}

// BuildUserPrompt wraps the invoice text for the user message.
func BuildUserPrompt(text string) string {
	return "Invoice Text Content:\n\n" + text
}

// Truncate bounds text to max characters, appending a visible marker when
// content was cut. Truncate is applied before prompting to respect the
// service's input budget.
func Truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	return text[:max] + "... [truncated]"
}

// StripFences removes a leading ```csv fence and trailing ``` fence that
// models sometimes wrap around tabular output.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```csv\n") {
		s = strings.TrimPrefix(s, "```csv\n")
	} else if strings.HasPrefix(s, "```\n") {
		s = strings.TrimPrefix(s, "```\n")
	}
	s = strings.TrimSuffix(s, "\n```")
	return s
}
