package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pharmadocs/invoice-tabulator/internal/llm"
)

func newTestServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func TestExtractTable(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "qty,description\n1,Widget\n")
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	out, err := c.ExtractTable(context.Background(), llm.ExtractRequest{
		Text:       "invoice text",
		SupplierID: "iskus",
		Columns:    []llm.ColumnSpec{{Name: "qty"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "qty,description\n1,Widget", out)
}

func TestExtractTableServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	_, err := c.ExtractTable(context.Background(), llm.ExtractRequest{Text: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestExtractTableNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	_, err := c.ExtractTable(context.Background(), llm.ExtractRequest{Text: "x"})
	assert.Error(t, err)
}

func TestExtractText(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, "extracted invoice text")
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	out, err := c.ExtractText(context.Background(), []byte{0xFF, 0xD8, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, "extracted invoice text", out)
}

func TestExtractTextEmptyImage(t *testing.T) {
	c := NewClient(Config{APIKey: "test-key"}, nil)
	_, err := c.ExtractText(context.Background(), nil)
	assert.Error(t, err)
}

func TestExtractStructured(t *testing.T) {
	body := `{
		"invoice_number": "INV-1",
		"invoice_date": "2023-05-12",
		"vendor": "Acme",
		"customer": "Murphy",
		"total_amount": 36.9,
		"currency": "EUR",
		"payment_terms": "30 days",
		"items": [
			{"description": "Widget", "quantity": 2, "unit_price": 10, "amount": 20}
		]
	}`
	srv := newTestServer(t, http.StatusOK, body)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	summary, raw, err := c.ExtractStructured(context.Background(), "invoice text")
	require.NoError(t, err)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "INV-1", summary.InvoiceNumber)
	assert.Equal(t, 36.9, summary.TotalAmount)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "Widget", summary.Items[0].Description)
}

func TestExtractStructuredRejectsInvalidShape(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"invoice_number": 42}`)
	defer srv.Close()

	c := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL}, nil)

	_, _, err := c.ExtractStructured(context.Background(), "invoice text")
	assert.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(Config{APIKey: "k"}, nil)

	assert.Equal(t, "https://api.openai.com/v1", c.cfg.BaseURL)
	assert.Equal(t, "gpt-4o", c.cfg.Model)
	assert.Equal(t, c.cfg.Model, c.cfg.VisionModel)
	assert.Positive(t, c.cfg.MaxVisionTokens)
}
