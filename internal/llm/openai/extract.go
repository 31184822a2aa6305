package openai

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pharmadocs/invoice-tabulator/internal/llm"
)

// ExtractTable implements llm.TableExtractor. The response is raw CSV text;
// the orchestrator parses and validates it downstream.
func (c *Client) ExtractTable(ctx context.Context, req llm.ExtractRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract_table.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"supplier", req.SupplierID,
		"text_len", len(req.Text),
		"columns", len(req.Columns),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt(req)},
			{"role": "user", "content": llm.BuildUserPrompt(req.Text)},
		},
	}

	content, err := c.chatCompletion(ctx, body)
	if err != nil {
		c.log.Error("llm.extract_table.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	c.log.Info("llm.extract_table.ok",
		"req_id", rid,
		"bytes", len(content),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return content, nil
}
