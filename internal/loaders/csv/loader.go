// Package csv loads comma-separated files into the uniform table shape.
package csv

import (
	"context"
	enccsv "encoding/csv"
	"fmt"
	"os"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/loaders/cells"
)

// Ensure Loader implements the interface.
var _ driven.TableLoader = (*Loader)(nil)

// Loader reads .csv files. The first record is the header row.
type Loader struct{}

// New creates a CSV loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".csv"}
}

// Load parses the file into a table. Records shorter than the header are
// padded with missing cells; empty cells are missing.
func (l *Loader) Load(ctx context.Context, path string, _ driven.LoadOptions) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	defer f.Close()

	r := enccsvReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file, header row required", domain.ErrUnreadableFile)
	}

	header := records[0]
	table := &domain.Table{Columns: make([]domain.Column, len(header))}
	for i, name := range header {
		table.Columns[i] = domain.Column{
			Name:  name,
			Cells: make([]domain.Cell, 0, len(records)-1),
		}
	}
	for _, record := range records[1:] {
		row := cells.Row(record, len(header))
		for i := range table.Columns {
			table.Columns[i].Cells = append(table.Columns[i].Cells, row[i])
		}
	}
	return table, nil
}

func enccsvReader(f *os.File) *enccsv.Reader {
	r := enccsv.NewReader(f)
	// Ragged exports are common; pad/truncate per row instead of failing.
	r.FieldsPerRecord = -1
	return r
}
