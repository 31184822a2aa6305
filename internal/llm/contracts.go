package llm

import "context"

// ColumnSpec names one requested output column with a human-readable
// description included in the prompt.
type ColumnSpec struct {
	Name        string
	Description string
}

// ExtractRequest carries everything the external service needs to turn
// invoice text into tabular output.
type ExtractRequest struct {
	// Text is the (already truncated) invoice text.
	Text string
	// SupplierID is the resolved supplier, for logging only.
	SupplierID string
	// Guidance is the supplier-specific prompt template.
	Guidance string
	// Columns is the ordered canonical schema the response must follow.
	Columns []ColumnSpec
}

// TableExtractor is the external extraction service: invoice text in,
// tabular (CSV) text out. Implementations report failure through the error;
// they never return a usable table alongside one.
type TableExtractor interface {
	ExtractTable(ctx context.Context, req ExtractRequest) (string, error)
}

// TextFromImage turns a page image into raw text. An empty string with a nil
// error means the page carried no recognizable text.
type TextFromImage interface {
	ExtractText(ctx context.Context, imageBytes []byte) (string, error)
}

// InvoiceSummary is the structured shape produced by the inspect path.
type InvoiceSummary struct {
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceDate   string        `json:"invoice_date"`
	Vendor        string        `json:"vendor"`
	Customer      string        `json:"customer"`
	TotalAmount   float64       `json:"total_amount"`
	Currency      string        `json:"currency"`
	PaymentTerms  string        `json:"payment_terms"`
	Items         []SummaryItem `json:"items"`
}

// SummaryItem is one line item inside an InvoiceSummary.
type SummaryItem struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// StructuredExtractor is the JSON inspection path: invoice text in, one
// schema-validated summary out.
type StructuredExtractor interface {
	ExtractStructured(ctx context.Context, text string) (InvoiceSummary, []byte, error)
}
