package codebook

import (
	"fmt"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

// BinaryMarker is the one string token accepted as a truthy binary cell.
const BinaryMarker = "x"

// Truthy decides whether a binary-format cell marks its code as assigned.
// The rule is fixed: non-zero numbers, boolean true, and the literal
// marker "x" (case-insensitive) are truthy; zero, blanks and anything
// else are not.
func Truthy(c domain.Cell) bool {
	switch c.Kind {
	case domain.CellNumber:
		return c.Num != 0
	case domain.CellBool:
		return c.Bool
	case domain.CellString:
		s := c.Str
		return len(s) == 1 && (s == "x" || s == "X")
	default:
		return false
	}
}

// BinaryAssignments reduces binary-indicator columns to per-row code id
// lists. codeCols must align positionally with the codebook: column i
// marks cb[i].
func BinaryAssignments(table *domain.Table, codeCols []string, cb domain.Codebook) ([][]int, error) {
	if len(codeCols) != len(cb) {
		return nil, fmt.Errorf("%w: %d code columns but %d codebook entries",
			domain.ErrInvalidInput, len(codeCols), len(cb))
	}
	for _, name := range codeCols {
		if !table.HasColumn(name) {
			return nil, &domain.MissingColumnError{Column: name}
		}
	}

	out := make([][]int, table.NumRows())
	for row := range out {
		var codes []int
		for i, name := range codeCols {
			if Truthy(table.Cell(name, row)) {
				codes = append(codes, cb[i].ID)
			}
		}
		out[row] = codes
	}
	return out, nil
}

// ListAssignments reduces sparse list columns (each cell holds at most one
// code id) to per-row code id lists. Blanks and zeros are dropped; every
// remaining id must exist in the codebook, otherwise the whole run fails
// with UnknownCodeError before anything reaches the network.
func ListAssignments(table *domain.Table, codeCols []string, cb domain.Codebook) ([][]int, error) {
	for _, name := range codeCols {
		if !table.HasColumn(name) {
			return nil, &domain.MissingColumnError{Column: name}
		}
	}

	out := make([][]int, table.NumRows())
	for row := range out {
		var codes []int
		for _, name := range codeCols {
			cell := table.Cell(name, row)
			if cell.IsMissing() {
				continue
			}
			id, ok := cell.Int()
			if !ok {
				return nil, fmt.Errorf("%w: column %q row %d: code id %q is not an integer",
					domain.ErrInvalidInput, name, row+1, cell.String())
			}
			if id == 0 {
				// Zero is a fill value in list exports, not a code id.
				continue
			}
			if !cb.Contains(id) {
				return nil, &domain.UnknownCodeError{ID: id}
			}
			codes = append(codes, id)
		}
		out[row] = codes
	}
	return out, nil
}

// ReviewedFromCodes infers reviewed status when no explicit column is
// supplied: a row counts as reviewed iff a coder touched at least one of
// its raw code cells.
func ReviewedFromCodes(table *domain.Table, codeCols []string) []bool {
	out := make([]bool, table.NumRows())
	for row := range out {
		for _, name := range codeCols {
			if !table.Cell(name, row).IsMissing() {
				out[row] = true
				break
			}
		}
	}
	return out
}
