package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pharmadocs/invoice-tabulator/internal/llm"
)

const structuredSystemPrompt = `You are a precise invoice data extraction assistant. Your task is to extract structured data from invoice text. Format your response as valid JSON with the following structure:
{
  "invoice_number": "string",
  "invoice_date": "YYYY-MM-DD",
  "vendor": "string",
  "customer": "string",
  "total_amount": number,
  "currency": "string",
  "payment_terms": "string",
  "items": [
    {
      "description": "string",
      "quantity": number,
      "unit_price": number,
      "amount": number
    }
  ]
}
If you can't find a specific field, use null for its value. Extract as many line items as possible.`

// ExtractStructured implements llm.StructuredExtractor: one invoice text in,
// one schema-validated summary out. Used by the inspect path, not the main
// tabular pipeline.
func (c *Client) ExtractStructured(ctx context.Context, text string) (llm.InvoiceSummary, []byte, error) {
	if strings.TrimSpace(text) == "" {
		return llm.InvoiceSummary{}, nil, fmt.Errorf("empty text for structured extraction")
	}

	rid := uuid.New().String()
	start := time.Now()

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": 0.1,
		"messages": []map[string]any{
			{"role": "system", "content": structuredSystemPrompt},
			{"role": "user", "content": "Extract structured data from this invoice text:\n\n" + text},
		},
	}

	content, err := c.chatCompletion(ctx, body)
	if err != nil {
		c.log.Error("llm.structured.error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.InvoiceSummary{}, nil, err
	}

	raw := []byte(stripJSONFences(content))

	schema := llm.BuildInvoiceSummaryJSONSchema()
	if err := llm.ValidateJSONAgainstSchema(schema, raw); err != nil {
		c.log.Error("llm.structured.schema_validation_failed", "req_id", rid, "error", err)
		return llm.InvoiceSummary{}, raw, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.InvoiceSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		return llm.InvoiceSummary{}, raw, fmt.Errorf("unmarshal summary: %w", err)
	}

	c.log.Info("llm.structured.ok",
		"req_id", rid,
		"invoice_number", out.InvoiceNumber,
		"items", len(out.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, raw, nil
}

func stripJSONFences(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}
	return strings.TrimSpace(s)
}
