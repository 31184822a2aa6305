package extract

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/fallback"
	"github.com/pharmadocs/invoice-tabulator/internal/llm"
	"github.com/pharmadocs/invoice-tabulator/internal/supplier"
	"github.com/pharmadocs/invoice-tabulator/internal/table"
)

// SupplierColumn is the provenance column stamped onto every extracted table.
const SupplierColumn = "supplier_type"

// Config tunes the orchestrator.
type Config struct {
	// MaxPromptChars bounds the invoice text sent to the extraction service.
	MaxPromptChars int
	// FallbackEnabled turns on the heuristic parser when the service path
	// fails or yields nothing usable.
	FallbackEnabled bool
}

// Orchestrator coordinates one document's extraction: resolve the supplier,
// call the extraction service, parse and clean the response, and fall back to
// the heuristic parser when the service path fails.
type Orchestrator struct {
	registry   *supplier.Registry
	classifier *supplier.Classifier
	service    llm.TableExtractor
	fallback   *fallback.Parser
	cfg        Config
	log        *slog.Logger
}

func NewOrchestrator(
	registry *supplier.Registry,
	classifier *supplier.Classifier,
	service llm.TableExtractor,
	fb *fallback.Parser,
	cfg Config,
	logger *slog.Logger,
) *Orchestrator {
	if cfg.MaxPromptChars <= 0 {
		cfg.MaxPromptChars = 12000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		registry:   registry,
		classifier: classifier,
		service:    service,
		fallback:   fb,
		cfg:        cfg,
		log:        logger,
	}
}

// Extract turns raw invoice text into the supplier's canonical table. A
// non-empty supplierHint bypasses classification; otherwise the supplier is
// resolved from the text. The returned table always carries the resolved
// supplier id in the supplier_type column.
func (o *Orchestrator) Extract(ctx context.Context, rawText, supplierHint string) (*table.Table, error) {
	if strings.TrimSpace(rawText) == "" {
		return nil, common.NewAppError("EMPTY_TEXT", "no invoice text to extract from", common.ErrInvalidInput)
	}

	id := supplierHint
	if id == "" {
		id = o.classifier.Classify(rawText)
	}
	profile := o.registry.Lookup(id)

	o.log.Info("extract.start",
		"supplier", profile.ID,
		"hinted", supplierHint != "",
		"text_len", len(rawText),
	)

	out, err := o.serviceExtract(ctx, rawText, profile)
	if err != nil {
		o.log.Warn("extract.service_path_failed", "supplier", profile.ID, "error", err)
		out, err = o.fallbackExtract(profile, rawText, err)
		if err != nil {
			return nil, err
		}
	}

	out = profile.PostProcess(out)
	out.SetColumn(SupplierColumn, profile.ID)

	o.log.Info("extract.ok", "supplier", profile.ID, "rows", out.Len())
	return out, nil
}

func (o *Orchestrator) serviceExtract(ctx context.Context, rawText string, profile *supplier.Profile) (*table.Table, error) {
	if o.service == nil {
		return nil, common.NewAppError("NO_SERVICE", "no extraction service configured", common.ErrServiceFailure)
	}

	req := llm.ExtractRequest{
		Text:       llm.Truncate(rawText, o.cfg.MaxPromptChars),
		SupplierID: profile.ID,
		Guidance:   profile.PromptTemplate,
		Columns:    llm.DescribeColumns(profile.ExpectedColumns),
	}

	csvText, err := o.service.ExtractTable(ctx, req)
	if err != nil {
		return nil, common.WrapError(err, "SERVICE_ERROR", "extraction service call failed")
	}

	parsed, err := table.ParseCSV(llm.StripFences(csvText))
	if err != nil {
		return nil, common.NewAppError("PARSE_ERROR", "service response is not tabular", common.ErrParseFailure)
	}

	cleaned, err := table.Clean(parsed, profile.ExpectedColumns)
	if err != nil {
		return nil, err
	}
	return cleaned, nil
}

// fallbackAliases copies heuristic parser fields into canonical column names
// that some supplier schemas use for the same value.
var fallbackAliases = map[string]string{
	"total":     "total_amount",
	"tax":       "vat_amount",
	"po_number": "your_ref",
}

func (o *Orchestrator) fallbackExtract(profile *supplier.Profile, rawText string, cause error) (*table.Table, error) {
	if !o.cfg.FallbackEnabled || o.fallback == nil {
		return nil, cause
	}

	records := o.fallback.Parse(rawText)
	if len(records) == 0 {
		return nil, cause
	}

	t := table.New(fallback.Columns...)
	for _, rec := range records {
		row := make(table.Row, len(rec))
		for k, v := range rec {
			row[k] = v
		}
		for from, to := range fallbackAliases {
			if row[to] == "" {
				row[to] = row[from]
			}
		}
		t.Append(row)
	}
	for _, to := range fallbackAliases {
		if !t.HasColumn(to) {
			t.Columns = append(t.Columns, to)
		}
	}

	cleaned, err := table.Clean(t, profile.ExpectedColumns)
	if err != nil {
		return nil, cause
	}

	o.log.Info("extract.fallback_used", "supplier", profile.ID, "rows", cleaned.Len())
	return cleaned, nil
}
