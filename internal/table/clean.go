package table

import (
	"strings"

	"github.com/pharmadocs/invoice-tabulator/internal/common"
	"github.com/pharmadocs/invoice-tabulator/internal/normalize"
)

// Clean validates a parsed table against the expected canonical columns and
// returns a new table whose column set equals expected exactly, in order:
//
//   - column names are lower-cased and stripped
//   - expected columns missing from the input are added empty
//   - columns outside expected are dropped
//   - null-like cell values ("nan", "None") become empty strings
//   - invoice_date / invoice_time cells are normalized when those columns exist
//
// A nil or empty input table is a failure, not an empty result.
func Clean(t *Table, expected []string) (*Table, error) {
	if t == nil || len(t.Rows) == 0 {
		return nil, common.ErrEmptyResult
	}

	// Map normalized header names back to the original keys; first wins on
	// duplicate headers.
	byName := make(map[string]string, len(t.Columns))
	for _, c := range t.Columns {
		name := strings.ToLower(strings.TrimSpace(c))
		if _, ok := byName[name]; !ok {
			byName[name] = c
		}
	}

	out := New(expected...)
	for _, r := range t.Rows {
		row := make(Row, len(expected))
		for _, col := range expected {
			v := ""
			if orig, ok := byName[col]; ok {
				v = cleanCell(r[orig])
			}
			switch col {
			case "invoice_date":
				v = normalize.Date(v)
			case "invoice_time":
				v = normalize.Time(v)
			}
			row[col] = v
		}
		out.Append(row)
	}
	return out, nil
}

func cleanCell(v string) string {
	switch v {
	case "nan", "None":
		return ""
	}
	return v
}
