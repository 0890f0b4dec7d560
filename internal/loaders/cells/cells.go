// Package cells infers typed table cells from the string values that
// spreadsheet formats deliver.
package cells

import (
	"strconv"
	"strings"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

// Infer converts a raw spreadsheet cell string into a typed cell.
// Empty and whitespace-only strings are missing; values parsing as a
// number or boolean become typed cells; everything else stays a string.
func Infer(raw string) domain.Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return domain.MissingCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return domain.NumberCell(f)
	}
	if strings.EqualFold(trimmed, "true") {
		return domain.BoolCell(true)
	}
	if strings.EqualFold(trimmed, "false") {
		return domain.BoolCell(false)
	}
	return domain.StringCell(raw)
}

// Row converts a raw record, padding with missing cells up to width.
func Row(raw []string, width int) []domain.Cell {
	out := make([]domain.Cell, width)
	for i := range out {
		if i < len(raw) {
			out[i] = Infer(raw[i])
		} else {
			out[i] = domain.MissingCell()
		}
	}
	return out
}
