package domain

import (
	"math"
	"strconv"
	"strings"
)

// CellKind discriminates the scalar types a table cell can hold.
type CellKind int

const (
	// CellMissing is an absent value (empty spreadsheet cell, JSON null).
	CellMissing CellKind = iota
	// CellString is a text value.
	CellString
	// CellNumber is a numeric value, stored as float64.
	CellNumber
	// CellBool is a boolean value.
	CellBool
)

// Cell is one scalar value in a table.
// The zero value is a missing cell.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
}

// MissingCell returns an absent cell.
func MissingCell() Cell { return Cell{Kind: CellMissing} }

// StringCell returns a text cell.
func StringCell(s string) Cell { return Cell{Kind: CellString, Str: s} }

// NumberCell returns a numeric cell.
func NumberCell(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

// BoolCell returns a boolean cell.
func BoolCell(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

// IsMissing reports whether the cell holds no value. A string cell that is
// empty or whitespace-only also counts as missing, matching how blank
// spreadsheet cells round-trip through CSV.
func (c Cell) IsMissing() bool {
	if c.Kind == CellMissing {
		return true
	}
	return c.Kind == CellString && strings.TrimSpace(c.Str) == ""
}

// String renders the cell for transport. Missing cells become the empty
// string (the remote API requires strings, never null). Integral numbers
// render without a trailing ".0" so spreadsheet-float ids survive intact.
func (c Cell) String() string {
	switch c.Kind {
	case CellString:
		return c.Str
	case CellNumber:
		if c.Num == math.Trunc(c.Num) && !math.IsInf(c.Num, 0) {
			return strconv.FormatInt(int64(c.Num), 10)
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Int parses the cell as an integer. Numeric cells must be integral;
// string cells may be integer or float renderings ("5", "5.0").
func (c Cell) Int() (int, bool) {
	switch c.Kind {
	case CellNumber:
		if c.Num != math.Trunc(c.Num) {
			return 0, false
		}
		return int(c.Num), true
	case CellString:
		s := strings.TrimSpace(c.Str)
		if s == "" {
			return 0, false
		}
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == math.Trunc(f) {
			return int(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Column is one named, ordered column of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// Table is the uniform in-memory representation every loader produces:
// an ordered sequence of named columns, all with the same length.
type Table struct {
	Columns []Column
}

// NumRows returns the number of rows in the table.
func (t *Table) NumRows() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns the column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Column returns the column with the given name, or nil.
func (t *Table) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}

// HasColumn reports whether a column with the given name exists.
func (t *Table) HasColumn(name string) bool {
	return t.Column(name) != nil
}

// Cell returns the cell at (column name, row index). A missing column or
// out-of-range row yields a missing cell.
func (t *Table) Cell(name string, row int) Cell {
	col := t.Column(name)
	if col == nil || row < 0 || row >= len(col.Cells) {
		return MissingCell()
	}
	return col.Cells[row]
}
