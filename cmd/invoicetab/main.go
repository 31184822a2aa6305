// Command invoicetab extracts tabular data from supplier invoices and writes
// the results to Excel workbooks.
package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/export"
	"github.com/pharmadocs/invoice-tabulator/internal/extract"
	"github.com/pharmadocs/invoice-tabulator/internal/fallback"
	"github.com/pharmadocs/invoice-tabulator/internal/ingest"
	"github.com/pharmadocs/invoice-tabulator/internal/llm/openai"
	"github.com/pharmadocs/invoice-tabulator/internal/ocr"
	"github.com/pharmadocs/invoice-tabulator/internal/supplier"
	"github.com/pharmadocs/invoice-tabulator/internal/table"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type app struct {
	cfg        *common.Config
	log        *slog.Logger
	registry   *supplier.Registry
	classifier *supplier.Classifier
	client     *openai.Client
	texts      *ocr.Extractor
	orch       *extract.Orchestrator
	aggregator *ingest.Aggregator
	exporter   *export.Service
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		verbose    bool
		a          app
	)

	root := &cobra.Command{
		Use:          "invoicetab",
		Short:        "Extract tabular data from supplier invoices",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// A missing .env is fine; env vars may come from the shell.
			_ = godotenv.Load()

			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			cfg, err := common.LoadConfig(configPath)
			if err != nil {
				return err
			}
			a = buildApp(cfg, logger)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "invoicetab.yaml", "path to YAML config file")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newProcessCmd(&a))
	root.AddCommand(newExtractCmd(&a))
	root.AddCommand(newInspectCmd(&a))
	root.AddCommand(newSuppliersCmd(&a))
	return root
}

func buildApp(cfg *common.Config, logger *slog.Logger) app {
	client := openai.NewClient(openai.Config{
		APIKey:          cfg.LLM.APIKey,
		BaseURL:         cfg.LLM.BaseURL,
		Model:           cfg.LLM.Model,
		VisionModel:     cfg.LLM.VisionModel,
		Temperature:     cfg.LLM.Temperature,
		Timeout:         cfg.LLM.Timeout,
		MaxVisionTokens: cfg.LLM.MaxVisionToken,
	}, logger)

	registry := supplier.NewRegistry()
	classifier := supplier.NewClassifier(logger)
	parser := fallback.NewParser(fallback.DefaultConfig(), logger)
	texts := ocr.NewExtractor(client, logger)

	orch := extract.NewOrchestrator(registry, classifier, client, parser, extract.Config{
		MaxPromptChars:  cfg.Extraction.MaxPromptChars,
		FallbackEnabled: cfg.Extraction.FallbackEnabled,
	}, logger)

	return app{
		cfg:        cfg,
		log:        logger,
		registry:   registry,
		classifier: classifier,
		client:     client,
		texts:      texts,
		orch:       orch,
		aggregator: ingest.NewAggregator(texts, orch, logger),
		exporter: export.NewService(export.Config{
			CombinedSheet:    true,
			BySupplierSheets: cfg.Export.BySupplierSheets,
		}, logger),
	}
}

func newProcessCmd(a *app) *cobra.Command {
	var (
		output    string
		recursive bool
	)
	cmd := &cobra.Command{
		Use:   "process <directory>",
		Short: "Extract every invoice in a directory into an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var groups map[string]*table.Table
			var err error
			if recursive {
				groups, err = a.aggregator.ProcessTree(ctx, args[0])
			} else {
				groups, err = a.aggregator.ProcessDirectory(ctx, args[0])
			}
			if err != nil {
				return err
			}
			if len(groups) == 0 {
				return common.NewAppError("NO_RESULTS", "no invoices could be extracted", common.ErrEmptyResult)
			}

			if err := a.exporter.WriteWorkbook(output, groups); err != nil {
				return err
			}
			cmd.Println("Workbook written to", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "invoices.xlsx", "output workbook path")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "recurse into subdirectories, one sheet per top-level directory")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var (
		output     string
		supplierID string
	)
	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract a single invoice and print it as CSV or write a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			path := args[0]

			res, err := a.texts.ExtractText(ctx, path)
			if err != nil {
				return err
			}

			hint := supplierID
			if hint == "" {
				hint = supplier.FromFilename(filepath.Base(path))
			}
			t, err := a.orch.Extract(ctx, res.Text, hint)
			if err != nil {
				return err
			}

			if output != "" {
				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				return a.exporter.WriteWorkbook(output, map[string]*table.Table{name: t})
			}
			return writeCSV(cmd.OutOrStdout(), t)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write a workbook instead of printing CSV")
	cmd.Flags().StringVarP(&supplierID, "supplier", "s", "", "supplier id override (skips classification)")
	return cmd
}

func newInspectCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Extract a structured JSON summary of one invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			ctx := cmd.Context()

			res, err := a.texts.ExtractText(ctx, args[0])
			if err != nil {
				return err
			}
			summary, _, err := a.client.ExtractStructured(ctx, res.Text)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(summary)
		},
	}
	return cmd
}

func newSuppliersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "suppliers",
		Short: "List known supplier ids in registration order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range a.registry.IDs() {
				cmd.Println(id)
			}
			return nil
		},
	}
}

func writeCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for i := range t.Rows {
		record := make([]string, len(t.Columns))
		for c, col := range t.Columns {
			record[c] = t.Get(i, col)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
