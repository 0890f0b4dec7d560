// Package xlsx loads Excel workbooks into the uniform table shape.
package xlsx

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/loaders/cells"
)

// Ensure Loader implements the interface.
var _ driven.TableLoader = (*Loader)(nil)

// Loader reads .xlsx workbooks via excelize. The first row of the
// selected sheet is the header row.
type Loader struct{}

// New creates an Excel loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the extensions this loader handles. The legacy .xls
// binary format is accepted here so the error is a parse error with a
// re-save hint rather than an unknown-extension error.
func (l *Loader) Extensions() []string {
	return []string{".xlsx", ".xls"}
}

// Load parses the sheet selected by opts.Sheet into a table.
func (l *Loader) Load(ctx context.Context, path string, opts driven.LoadOptions) (*domain.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not parseable, re-save the file as .xlsx",
			domain.ErrUnreadableFile)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if opts.Sheet < 0 || opts.Sheet >= len(sheets) {
		return nil, fmt.Errorf("%w: sheet index %d out of range, workbook has %d sheet(s)",
			domain.ErrUnreadableFile, opts.Sheet, len(sheets))
	}
	sheetName := sheets[opts.Sheet]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty, header row required",
			domain.ErrUnreadableFile, sheetName)
	}

	header := rows[0]
	table := &domain.Table{Columns: make([]domain.Column, len(header))}
	for i, name := range header {
		table.Columns[i] = domain.Column{
			Name:  name,
			Cells: make([]domain.Cell, 0, len(rows)-1),
		}
	}
	for _, record := range rows[1:] {
		row := cells.Row(record, len(header))
		for i := range table.Columns {
			table.Columns[i].Cells = append(table.Columns[i].Cells, row[i])
		}
	}
	return table, nil
}
