// Package export writes extraction results to Excel workbooks: one sheet per
// source directory, with optional combined and per-supplier sheets.
package export

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/extract"
	"github.com/pharmadocs/invoice-tabulator/internal/table"
)

const (
	combinedSheetName = "All Invoices"
	maxSheetNameLen   = 31
)

// Config tunes workbook layout.
type Config struct {
	// CombinedSheet adds a sheet merging every group's rows.
	CombinedSheet bool
	// BySupplierSheets adds one sheet per supplier id found in the data.
	BySupplierSheets bool
}

// Service renders merged invoice tables into an Excel workbook.
type Service struct {
	cfg Config
	log *slog.Logger
}

func NewService(cfg Config, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, log: logger}
}

// WriteWorkbook writes one sheet per group to path. Group keys become sheet
// names, sanitized and deduplicated. An empty group map is an error.
func (s *Service) WriteWorkbook(path string, groups map[string]*table.Table) error {
	if len(groups) == 0 {
		return common.NewAppError("NO_RESULTS", "no tables to export", common.ErrEmptyResult)
	}

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Warn("export.workbook_close_error", "error", err)
		}
	}()

	used := map[string]int{}
	for _, key := range keys {
		name := sheetName(key, used)
		if err := writeSheet(f, name, groups[key]); err != nil {
			return common.WrapError(err, "SHEET_WRITE_ERROR", "write sheet "+name)
		}
	}

	if s.cfg.CombinedSheet {
		name := sheetName(combinedSheetName, used)
		if err := writeSheet(f, name, mergeGroups(keys, groups)); err != nil {
			return common.WrapError(err, "SHEET_WRITE_ERROR", "write combined sheet")
		}
	}

	if s.cfg.BySupplierSheets {
		if err := s.writeSupplierSheets(f, keys, groups, used); err != nil {
			return err
		}
	}

	// The default sheet is only noise once real sheets exist.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		s.log.Warn("export.delete_default_sheet_failed", "error", err)
	}

	if err := f.SaveAs(path); err != nil {
		return common.WrapError(err, "WORKBOOK_SAVE_ERROR", "save workbook")
	}

	s.log.Info("export.workbook_ok", "path", path, "sheets", len(keys))
	return nil
}

func (s *Service) writeSupplierSheets(f *excelize.File, keys []string, groups map[string]*table.Table, used map[string]int) error {
	for _, id := range supplierIDs(keys, groups) {
		t := rowsForSupplier(keys, groups, id)
		if t.Len() == 0 {
			continue
		}
		name := sheetName("By "+id, used)
		if err := writeSheet(f, name, t); err != nil {
			return common.WrapError(err, "SHEET_WRITE_ERROR", "write supplier sheet "+name)
		}
	}
	return nil
}

func writeSheet(f *excelize.File, name string, t *table.Table) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	for c, col := range t.Columns {
		cell, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(name, cell, col); err != nil {
			return err
		}
	}
	for r := range t.Rows {
		for c, col := range t.Columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(name, cell, t.Get(r, col)); err != nil {
				return err
			}
		}
	}
	return nil
}

// mergeGroups appends every group's rows under the union of their columns, in
// sorted group order. Row-level provenance is already present in the
// source_file column.
func mergeGroups(keys []string, groups map[string]*table.Table) *table.Table {
	var columns []string
	seen := map[string]struct{}{}
	for _, key := range keys {
		for _, c := range groups[key].Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				columns = append(columns, c)
			}
		}
	}

	out := table.New(columns...)
	for _, key := range keys {
		for _, r := range groups[key].Rows {
			row := make(table.Row, len(columns))
			for _, c := range columns {
				row[c] = r[c]
			}
			out.Append(row)
		}
	}
	return out
}

func supplierIDs(keys []string, groups map[string]*table.Table) []string {
	seen := map[string]struct{}{}
	var ids []string
	for _, key := range keys {
		for _, r := range groups[key].Rows {
			id := r[extract.SupplierColumn]
			if id == "" {
				continue
			}
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func rowsForSupplier(keys []string, groups map[string]*table.Table, id string) *table.Table {
	merged := mergeGroups(keys, groups)
	out := table.New(merged.Columns...)
	for _, r := range merged.Rows {
		if r[extract.SupplierColumn] == id {
			out.Append(r)
		}
	}
	return out
}

// sheetName sanitizes a candidate Excel sheet name and deduplicates it
// against names already used in the workbook.
func sheetName(candidate string, used map[string]int) string {
	cleaned := strings.TrimSpace(strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, candidate))
	if cleaned == "" {
		cleaned = "Sheet"
	}
	if len(cleaned) > maxSheetNameLen {
		cleaned = cleaned[:maxSheetNameLen]
	}

	used[cleaned]++
	if used[cleaned] == 1 {
		return cleaned
	}
	suffix := fmt.Sprintf("_%d", used[cleaned])
	if len(cleaned)+len(suffix) > maxSheetNameLen {
		cleaned = cleaned[:maxSheetNameLen-len(suffix)]
	}
	return cleaned + suffix
}
