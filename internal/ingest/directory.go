// Package ingest walks invoice directories, runs each supported file through
// the extraction pipeline, and merges the per-file tables into per-directory
// result tables.
package ingest

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"

	"github.com/pharmadocs/invoice-tabulator/constants"
	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/extract"
	"github.com/pharmadocs/invoice-tabulator/internal/supplier"
	"github.com/pharmadocs/invoice-tabulator/internal/table"
)

// Aggregator runs files through text acquisition and extraction, collecting
// results into merged tables keyed by directory name.
type Aggregator struct {
	texts extract.TextExtractor
	orch  *extract.Orchestrator
	log   *slog.Logger
}

func NewAggregator(texts extract.TextExtractor, orch *extract.Orchestrator, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{texts: texts, orch: orch, log: logger}
}

// ProcessFile extracts one file into its supplier's canonical table. The file
// name doubles as a supplier hint when it carries a recognizable marker.
func (a *Aggregator) ProcessFile(ctx context.Context, path string) (*table.Table, error) {
	res, err := a.texts.ExtractText(ctx, path)
	if err != nil {
		return nil, err
	}
	hint := supplier.FromFilename(filepath.Base(path))
	if hint == "" {
		hint = supplier.FromFilename(filepath.Base(filepath.Dir(path)))
	}
	return a.orch.Extract(ctx, res.Text, hint)
}

// ProcessDirectory extracts every supported file directly under dir and
// merges the results into one table keyed by the directory's base name. Files
// that fail extraction are skipped; a directory with zero usable files yields
// an empty map, not an error. A missing or non-directory path is an error.
func (a *Aggregator) ProcessDirectory(ctx context.Context, dir string) (map[string]*table.Table, error) {
	if err := mustBeDir(dir); err != nil {
		return nil, err
	}

	batch := uuid.New().String()
	a.log.Info("ingest.directory.start", "batch_id", batch, "dir", dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, common.WrapError(err, "READ_DIR_ERROR", "list directory")
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if constants.IsSupportedExt(filepath.Ext(entry.Name())) {
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	names, tables := a.processFiles(ctx, dir, files)

	out := map[string]*table.Table{}
	if len(tables) == 0 {
		a.log.Warn("ingest.directory_empty", "batch_id", batch, "dir", dir, "candidates", len(files))
		return out, nil
	}
	merged := table.Concat(names, tables)
	out[filepath.Base(dir)] = merged
	a.log.Info("ingest.directory.ok", "batch_id", batch, "files", len(names), "rows", merged.Len())
	return out, nil
}

// ProcessTree extracts every supported file under root, recursively, grouping
// results by top-level subdirectory. Files sitting directly in root are
// grouped under root's own base name.
func (a *Aggregator) ProcessTree(ctx context.Context, root string) (map[string]*table.Table, error) {
	if err := mustBeDir(root); err != nil {
		return nil, err
	}

	batch := uuid.New().String()
	a.log.Info("ingest.tree.start", "batch_id", batch, "root", root)

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, common.WrapError(err, "READ_DIR_ERROR", "list directory")
	}

	out := map[string]*table.Table{}

	var rootFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			files, err := collectFiles(filepath.Join(root, entry.Name()))
			if err != nil {
				a.log.Warn("ingest.subtree_walk_failed", "dir", entry.Name(), "error", err)
				continue
			}
			names, tables := a.processFiles(ctx, filepath.Join(root, entry.Name()), files)
			if len(tables) > 0 {
				out[entry.Name()] = table.Concat(names, tables)
			}
			continue
		}
		if constants.IsSupportedExt(filepath.Ext(entry.Name())) {
			rootFiles = append(rootFiles, entry.Name())
		}
	}

	sort.Strings(rootFiles)
	if names, tables := a.processFiles(ctx, root, rootFiles); len(tables) > 0 {
		out[filepath.Base(root)] = table.Concat(names, tables)
	}
	a.log.Info("ingest.tree.ok", "batch_id", batch, "groups", len(out))
	return out, nil
}

// processFiles runs each file (relative to base) through the pipeline,
// skipping failures. It returns parallel name and table slices.
func (a *Aggregator) processFiles(ctx context.Context, base string, files []string) ([]string, []*table.Table) {
	var names []string
	var tables []*table.Table
	for _, name := range files {
		t, err := a.ProcessFile(ctx, filepath.Join(base, name))
		if err != nil {
			a.log.Warn("ingest.file_skipped", "file", name, "error", err)
			continue
		}
		names = append(names, name)
		tables = append(tables, t)
	}
	return names, tables
}

// collectFiles gathers supported files under dir recursively, sorted by their
// path relative to dir.
func collectFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !constants.IsSupportedExt(filepath.Ext(path)) {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

func mustBeDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return common.NewAppError("DIR_NOT_FOUND", "directory does not exist: "+dir, common.ErrNotFound)
	}
	if !info.IsDir() {
		return common.NewAppError("NOT_A_DIRECTORY", "path is not a directory: "+dir, common.ErrInvalidInput)
	}
	return nil
}
