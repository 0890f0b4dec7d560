package driven

import (
	"context"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

// TableLoader reads one input file format into the uniform table shape.
// Loaders are selected by file extension; see internal/loaders.
type TableLoader interface {
	// Extensions returns the lower-cased file extensions this loader
	// handles, including the leading dot.
	Extensions() []string

	// Load parses the file at path into a table. Options that only apply
	// to some formats (sheet index) are carried in LoadOptions.
	// Parse failures wrap domain.ErrUnreadableFile.
	Load(ctx context.Context, path string, opts LoadOptions) (*domain.Table, error)
}

// LoadOptions carries per-load settings.
type LoadOptions struct {
	// Sheet is the zero-based sheet index for workbook formats.
	Sheet int
}
