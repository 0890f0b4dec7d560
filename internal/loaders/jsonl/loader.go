// Package jsonl loads JSON answer files into the uniform table shape.
// Both whole-document arrays of flat objects and line-delimited records
// are accepted.
package jsonl

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

// Ensure Loader implements the interface.
var _ driven.TableLoader = (*Loader)(nil)

// Loader reads .json, .jsonl and .ndjson files. A .json file whose first
// non-space byte is not '[' is treated as line-delimited.
type Loader struct{}

// New creates a JSON loader.
func New() *Loader {
	return &Loader{}
}

// Extensions returns the extensions this loader handles.
func (l *Loader) Extensions() []string {
	return []string{".json", ".jsonl", ".ndjson"}
}

// field is one key/value pair of a record, in document order.
type field struct {
	name string
	cell domain.Cell
}

// Load parses the file into a table. The column set is the union of keys
// across records, in first-seen order; keys absent from a record yield
// missing cells.
func (l *Loader) Load(ctx context.Context, path string, _ driven.LoadOptions) (*domain.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records [][]field
	if trimmed := bytes.TrimLeft(data, " \t\r\n"); len(trimmed) > 0 && trimmed[0] == '[' {
		records, err = decodeArray(trimmed)
	} else {
		records, err = decodeLines(data)
	}
	if err != nil {
		return nil, err
	}

	return buildTable(records), nil
}

func decodeArray(data []byte) ([][]field, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil { // opening '['
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	var records [][]field
	for dec.More() {
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeLines(data []byte) ([][]field, error) {
	var records [][]field
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader(line))
		rec, err := decodeObject(dec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	return records, nil
}

// decodeObject reads one flat object token by token, preserving key order.
func decodeObject(dec *json.Decoder) ([]field, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected an object, got %v", domain.ErrUnreadableFile, tok)
	}

	var fields []field
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
		}
		key, _ := keyTok.(string)

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
		}

		var cell domain.Cell
		switch v := valTok.(type) {
		case string:
			cell = domain.StringCell(v)
		case float64:
			cell = domain.NumberCell(v)
		case bool:
			cell = domain.BoolCell(v)
		case nil:
			cell = domain.MissingCell()
		default:
			return nil, fmt.Errorf("%w: key %q holds a nested value, records must be flat",
				domain.ErrUnreadableFile, key)
		}
		fields = append(fields, field{name: key, cell: cell})
	}
	if _, err := dec.Token(); err != nil { // closing '}'
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreadableFile, err)
	}
	return fields, nil
}

func buildTable(records [][]field) *domain.Table {
	table := &domain.Table{}
	index := make(map[string]int)

	// Union of keys in first-seen order.
	for _, rec := range records {
		for _, f := range rec {
			if _, ok := index[f.name]; !ok {
				index[f.name] = len(table.Columns)
				table.Columns = append(table.Columns, domain.Column{Name: f.name})
			}
		}
	}

	for rowIdx, rec := range records {
		for i := range table.Columns {
			table.Columns[i].Cells = append(table.Columns[i].Cells, domain.MissingCell())
		}
		for _, f := range rec {
			table.Columns[index[f.name]].Cells[rowIdx] = f.cell
		}
	}
	return table
}
