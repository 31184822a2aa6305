package openai

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExtractText implements llm.TextFromImage using the vision model: it returns
// the plain text visible on an invoice page image.
func (c *Client) ExtractText(ctx context.Context, imageBytes []byte) (string, error) {
	if len(imageBytes) == 0 {
		return "", fmt.Errorf("empty image bytes")
	}

	rid := uuid.New().String()
	start := time.Now()
	encoded := base64.StdEncoding.EncodeToString(imageBytes)

	body := map[string]any{
		"model":      c.cfg.VisionModel,
		"max_tokens": c.cfg.MaxVisionTokens,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{
						"type": "text",
						"text": "Extract all text from this invoice. Return only the extracted text without any additional formatting or explanation.",
					},
					{
						"type": "image_url",
						"image_url": map[string]any{
							"url": "data:image/jpeg;base64," + encoded,
						},
					},
				},
			},
		},
	}

	c.log.Info("llm.vision.start", "req_id", rid, "model", c.cfg.VisionModel, "image_bytes", len(imageBytes))

	text, err := c.chatCompletion(ctx, body)
	if err != nil {
		c.log.Error("llm.vision.error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", err
	}

	c.log.Info("llm.vision.ok", "req_id", rid, "text_len", len(text), "elapsed_ms", time.Since(start).Milliseconds())
	return text, nil
}
