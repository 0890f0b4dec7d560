// Package codebook extracts classification codes from input files and
// normalizes per-row code assignments into validated code id lists.
//
// Codebooks come from two places: an explicit codebook file with id,
// label and category columns, or the answer file itself, where binary
// code columns carry the code identity in their headers.
package codebook

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/logger"
)

// DefaultCategory buckets codes when the source has no category notion.
const DefaultCategory = "CODES"

// Columns names the codebook-file columns. Label is required; an empty
// Category means all codes get DefaultCategory; an empty ID means ids are
// assigned as the 1-based row index.
type Columns struct {
	Label    string
	Category string
	ID       string
}

// Parse reads an explicit codebook table. Rows with an empty label are
// skipped with a warning. Duplicate ids are fatal.
func Parse(table *domain.Table, cols Columns) (domain.Codebook, error) {
	if cols.Label == "" {
		return nil, fmt.Errorf("%w: codebook label column not named", domain.ErrInvalidInput)
	}
	if !table.HasColumn(cols.Label) {
		return nil, &domain.MissingColumnError{Column: cols.Label}
	}
	if cols.Category != "" && !table.HasColumn(cols.Category) {
		return nil, &domain.MissingColumnError{Column: cols.Category}
	}
	if cols.ID != "" && !table.HasColumn(cols.ID) {
		return nil, &domain.MissingColumnError{Column: cols.ID}
	}

	var cb domain.Codebook
	for row := 0; row < table.NumRows(); row++ {
		label := strings.TrimSpace(table.Cell(cols.Label, row).String())
		if label == "" {
			logger.Warn("codebook row %d has an empty label, skipping", row+1)
			continue
		}

		category := DefaultCategory
		if cols.Category != "" {
			if c := strings.TrimSpace(table.Cell(cols.Category, row).String()); c != "" {
				category = c
			}
		}

		id := row + 1
		if cols.ID != "" {
			n, ok := table.Cell(cols.ID, row).Int()
			if !ok {
				return nil, fmt.Errorf("%w: codebook row %d: id %q is not an integer",
					domain.ErrInvalidInput, row+1, table.Cell(cols.ID, row).String())
			}
			id = n
		}

		cb = append(cb, domain.Code{ID: id, Label: label, Category: category})
	}

	if err := cb.Validate(); err != nil {
		return nil, err
	}
	logger.Info("parsed codebook with %d codes", len(cb))
	return cb, nil
}

// FromHeaders infers a codebook from generic binary code columns: each
// header becomes a label, ids follow column position starting at 0.
func FromHeaders(headers []string) domain.Codebook {
	cb := make(domain.Codebook, len(headers))
	for i, h := range headers {
		cb[i] = domain.Code{ID: i, Label: strings.TrimSpace(h), Category: DefaultCategory}
	}
	return cb
}

// Vendor export headers encode the full code as a delimited triple:
//
//	Code ID 12|Code Name 'Price too high'|Code category 'PRICE'
//
// The prefixes and surrounding quotes vary slightly between export
// versions, so they are stripped by pattern rather than position.
var (
	vendorIDClean       = regexp.MustCompile(`Code ID `)
	vendorLabelClean    = regexp.MustCompile(`Code Name |'`)
	vendorCategoryClean = regexp.MustCompile(`Code category|Code Category|'`)
)

// ParseVendorHeader parses one vendor-format header triple. The second
// return is false for headers that are not triples.
func ParseVendorHeader(header string) (domain.Code, bool) {
	parts := strings.Split(header, "|")
	if len(parts) != 3 {
		return domain.Code{}, false
	}

	rawID := strings.TrimSpace(vendorIDClean.ReplaceAllString(parts[0], ""))
	label := strings.TrimSpace(vendorLabelClean.ReplaceAllString(parts[1], ""))
	category := strings.TrimSpace(vendorCategoryClean.ReplaceAllString(parts[2], ""))

	id, ok := domain.StringCell(rawID).Int()
	if !ok {
		return domain.Code{}, false
	}
	return domain.Code{
		ID:       id,
		Label:    label,
		Category: strings.ToUpper(category),
	}, true
}

// FromVendorHeaders infers a codebook from a table's vendor-format binary
// columns. It returns the codebook and the matched column names, aligned
// by position.
func FromVendorHeaders(table *domain.Table) (domain.Codebook, []string, error) {
	var (
		cb      domain.Codebook
		columns []string
	)
	for _, name := range table.ColumnNames() {
		code, ok := ParseVendorHeader(name)
		if !ok {
			continue
		}
		cb = append(cb, code)
		columns = append(columns, name)
	}
	if len(columns) == 0 {
		return nil, nil, fmt.Errorf("%w: no vendor-format code columns (header triples) found",
			domain.ErrInvalidInput)
	}
	if err := cb.Validate(); err != nil {
		return nil, nil, err
	}
	logger.Debug("found %d vendor code columns", len(columns))
	return cb, columns, nil
}

// ColumnsMatching returns the table columns whose name contains substr,
// in table order. Used to discover sparse code columns.
func ColumnsMatching(table *domain.Table, substr string) []string {
	var out []string
	for _, name := range table.ColumnNames() {
		if strings.Contains(name, substr) {
			out = append(out, name)
		}
	}
	return out
}

// VendorAnnotationColumns returns vendor "Code Name"/"Code Category"
// companion columns, which duplicate codebook data and are dropped from
// uploads rather than treated as auxiliary columns.
func VendorAnnotationColumns(table *domain.Table) []string {
	var out []string
	for _, name := range table.ColumnNames() {
		if strings.Contains(name, "Code Name") ||
			strings.Contains(name, "Code Category") ||
			strings.Contains(name, "Code Kategorie") {
			out = append(out, name)
		}
	}
	return out
}
