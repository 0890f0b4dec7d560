package driven

import (
	"context"

	"github.com/codelime/codelime-cli/internal/core/domain"
)

// UploadOptions controls server-side behaviour on write endpoints.
type UploadOptions struct {
	// RequestTraining asks the server to retrain after the upload.
	RequestTraining bool

	// Async asks the server to queue processing instead of handling the
	// request inline. Required for very large batches; the response is
	// then an acknowledgement, not the created entities.
	Async bool
}

// CodingAPI is the remote coding platform. The connector under
// internal/connectors/codelime implements it.
type CodingAPI interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	ListInheritableProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, projectID int) (*domain.Project, error)
	CreateProject(ctx context.Context, project *domain.Project, opts UploadOptions) (*domain.Project, error)
	DeleteProject(ctx context.Context, projectID int) error

	AddRows(ctx context.Context, projectID int, rows []domain.Row, opts UploadOptions) error
	ListRows(ctx context.Context, projectID int) ([]domain.Row, error)

	ListQuestions(ctx context.Context, projectID int) ([]domain.Question, error)
	GetQuestion(ctx context.Context, questionID int) (*domain.Question, error)
	UpdateQuestion(ctx context.Context, question *domain.Question, requestTraining bool) (*domain.Question, error)
	DeleteQuestion(ctx context.Context, questionID int) error
	ListAnswers(ctx context.Context, questionID int, grouped bool) ([]domain.Answer, error)

	RequestTraining(ctx context.Context, questionID int) error
	GetPredictions(ctx context.Context, questionID int) (*domain.Predictions, error)
}
