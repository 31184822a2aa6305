package llm

// BuildInvoiceSummaryJSONSchema returns a JSON-Schema (draft 2020-12 subset)
// as a generic map. The inspect path sends it to the model as an output
// constraint and also validates the response against it locally.
func BuildInvoiceSummaryJSONSchema() map[string]any {
	item := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"description": map[string]any{"type": []string{"string", "null"}},
			"quantity":    map[string]any{"type": []string{"number", "null"}},
			"unit_price":  map[string]any{"type": []string{"number", "null"}},
			"amount":      map[string]any{"type": []string{"number", "null"}},
		},
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"invoice_number": map[string]any{"type": []string{"string", "null"}},
			"invoice_date":   map[string]any{"type": []string{"string", "null"}},
			"vendor":         map[string]any{"type": []string{"string", "null"}},
			"customer":       map[string]any{"type": []string{"string", "null"}},
			"total_amount":   map[string]any{"type": []string{"number", "null"}},
			"currency":       map[string]any{"type": []string{"string", "null"}},
			"payment_terms":  map[string]any{"type": []string{"string", "null"}},
			"items":          map[string]any{"type": "array", "items": item},
		},
	}
}
