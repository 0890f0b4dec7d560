package services

import (
	"context"
	"fmt"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/logger"
)

// Inheritance links questions to trained source questions so the model
// starts from the source's codebook and training instead of scratch.
type Inheritance struct {
	api driven.CodingAPI
}

// NewInheritance creates the inheritance service.
func NewInheritance(api driven.CodingAPI) *Inheritance {
	return &Inheritance{api: api}
}

// Link sets sourceQuestionID as the inheritance source of questionID and
// requests retraining so the inherited model is applied.
func (s *Inheritance) Link(ctx context.Context, questionID, sourceQuestionID int) (*domain.Question, error) {
	question, err := s.api.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, fmt.Errorf("fetch question %d: %w", questionID, err)
	}

	question.InheritsFrom = &sourceQuestionID
	updated, err := s.api.UpdateQuestion(ctx, question, true)
	if err != nil {
		return nil, fmt.Errorf("update question %d: %w", questionID, err)
	}
	logger.Info("question %d now inherits from %d", questionID, sourceQuestionID)

	if err := s.api.RequestTraining(ctx, questionID); err != nil {
		// The link is saved; only the retraining kick-off failed.
		logger.Warn("training request for question %d failed: %v", questionID, err)
	}
	return updated, nil
}

// Sources lists the projects whose questions can serve as inheritance
// sources.
func (s *Inheritance) Sources(ctx context.Context) ([]domain.Project, error) {
	return s.api.ListInheritableProjects(ctx)
}
