package driven

import (
	"context"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

// ReportStore persists upload-run reports so failed batch ranges can be
// inspected after the process exits.
type ReportStore interface {
	Save(ctx context.Context, report domain.UploadReport) error
	List(ctx context.Context, limit int) ([]domain.UploadReport, error)
	Get(ctx context.Context, id string) (*domain.UploadReport, error)
	Close() error
}
