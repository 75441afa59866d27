// Package table holds the generic row-oriented dataset consumed by the
// extraction core. Cells are untyped strings; column names are known only
// by convention, so lookups report presence explicitly.
package table

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Table is a wide tabular dataset: one header row plus string-cell data rows.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a Table from a header and data rows. Duplicate column names are
// rejected; rows shorter than the header are padded on lookup, longer rows
// keep their extra cells unreachable.
func New(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, eris.New("table: empty header")
	}

	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, dup := index[c]; dup {
			return nil, eris.Errorf("table: duplicate column %q", c)
		}
		index[c] = i
	}

	return &Table{columns: columns, index: index, rows: rows}, nil
}

// Columns returns the header in file order.
func (t *Table) Columns() []string { return t.columns }

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the value at (row, column). ok is false when the column does
// not exist or the row is too short to carry it.
func (t *Table) Cell(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok {
		return "", false
	}
	if row < 0 || row >= len(t.rows) || i >= len(t.rows[row]) {
		return "", false
	}
	return t.rows[row][i], true
}

// IsMissing reports whether a cell should be treated as a missing-value
// marker: the column is absent, the row does not carry it, or the value
// trims to the empty string.
func (t *Table) IsMissing(row int, column string) bool {
	v, ok := t.Cell(row, column)
	return !ok || strings.TrimSpace(v) == ""
}
