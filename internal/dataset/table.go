// Package dataset holds the in-memory tabular model: an ordered, header-named
// table of string cells plus the boolean row masks produced by filtering.
package dataset

import (
	"fmt"
	"strings"

	apperrors "sheetsplit/internal/errors"
)

// Table is an ordered list of named columns over an ordered sequence of rows.
// Rows are addressed by position; short rows read as empty cells.
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table, validating that column names are unique and
// non-empty.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, apperrors.NewInvalidInputError("table must have at least one column")
	}

	seen := make(map[string]struct{}, len(columns))
	for i, col := range columns {
		if strings.TrimSpace(col) == "" {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("column %d has an empty name", i))
		}
		if _, dup := seen[col]; dup {
			return nil, apperrors.NewInvalidInputError(fmt.Sprintf("duplicate column name %q", col))
		}
		seen[col] = struct{}{}
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColumnIndex returns the position of the named column, or -1 if absent
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Columns {
		if col == name {
			return i
		}
	}
	return -1
}

// Cell returns the cell at (row, col), or "" when the row is shorter than
// the header
func (t *Table) Cell(row, col int) string {
	if col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// Select returns a new table containing the rows of the given positions, in
// the given order. Row slices are shared, not copied; callers treat rows as
// immutable.
func (t *Table) Select(indices []int) *Table {
	rows := make([][]string, len(indices))
	for i, idx := range indices {
		rows[i] = t.Rows[idx]
	}
	return &Table{Columns: t.Columns, Rows: rows}
}
