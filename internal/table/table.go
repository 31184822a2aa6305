// Package table implements the tabular data model shared by the extraction
// pipeline: an ordered column list plus string-valued rows, one table per
// source document.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Row maps a canonical column name to its cell value. Absent keys read as "".
type Row map[string]string

// Table is an ordered collection of rows sharing one column set.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns ...string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Get returns the cell at row i for column name, or "" when absent.
func (t *Table) Get(i int, name string) string {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return ""
	}
	return t.Rows[i][name]
}

// HasColumn reports whether name is part of the column set.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Append adds a row. Keys not in the column set are kept in the map but will
// not survive a Clean.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// SetColumn assigns value to every row in the named column, appending the
// column to the set if it is not yet present.
func (t *Table) SetColumn(name, value string) {
	if !t.HasColumn(name) {
		t.Columns = append(t.Columns, name)
	}
	for _, r := range t.Rows {
		r[name] = value
	}
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := New(t.Columns...)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		nr := make(Row, len(r))
		for k, v := range r {
			nr[k] = v
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

// ParseCSV decodes tabular text (header line plus data rows) into a Table.
// Ragged rows are tolerated: short rows are padded with empty strings and
// extra cells beyond the header are dropped.
func ParseCSV(text string) (*Table, error) {
	r := csv.NewReader(strings.NewReader(strings.TrimSpace(text)))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	t := New(header...)

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv row: %w", err)
		}
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		t.Append(row)
	}
	return t, nil
}

// Concat merges tables row-wise, preserving input order. The column set is
// the union of all inputs in first-seen order with a trailing source_file
// provenance column recording each row's originating name. Missing cells
// read as empty strings.
func Concat(names []string, tables []*Table) *Table {
	const provenance = "source_file"

	var columns []string
	seen := map[string]struct{}{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := seen[c]; !ok {
				seen[c] = struct{}{}
				columns = append(columns, c)
			}
		}
	}
	if _, ok := seen[provenance]; !ok {
		columns = append(columns, provenance)
	}

	out := New(columns...)
	for i, t := range tables {
		for _, r := range t.Rows {
			nr := make(Row, len(columns))
			for _, c := range columns {
				nr[c] = r[c]
			}
			nr[provenance] = names[i]
			out.Append(nr)
		}
	}
	return out
}
