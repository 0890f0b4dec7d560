package services

import (
	"context"
	"fmt"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/logger"
)

// Copier duplicates an existing project: questions, codebooks, settings
// and all rows. Server-assigned ids are stripped so the platform mints
// fresh ones, and answers are re-keyed from question ids to names.
type Copier struct {
	api      driven.CodingAPI
	uploader *Uploader
}

// NewCopier creates a copier that reads through api and writes through
// uploader.
func NewCopier(api driven.CodingAPI, uploader *Uploader) *Copier {
	return &Copier{api: api, uploader: uploader}
}

// Copy duplicates project sourceID under newName. An empty newName
// reuses the source name with a " (copy)" suffix.
func (c *Copier) Copy(ctx context.Context, sourceID int, newName string, opts driven.UploadOptions) (*domain.Project, *domain.UploadReport, error) {
	source, err := c.api.GetProject(ctx, sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch source project %d: %w", sourceID, err)
	}

	rows, err := c.api.ListRows(ctx, sourceID)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch rows of project %d: %w", sourceID, err)
	}
	logger.Info("copying %d rows from project %d", len(rows), sourceID)

	nameByID := map[int]string{}
	questions := make([]domain.Question, 0, len(source.Questions))
	for _, q := range source.Questions {
		if q.ID != nil {
			nameByID[*q.ID] = q.Name
		}
		q.ID = nil
		questions = append(questions, q)
	}

	for i := range rows {
		for j := range rows[i].Answers {
			answer := &rows[i].Answers[j]
			answer.ID = nil
			if answer.Question.ID != nil {
				name, ok := nameByID[*answer.Question.ID]
				if !ok {
					return nil, nil, fmt.Errorf("%w: row answer references unknown question %d",
						domain.ErrInvalidInput, *answer.Question.ID)
				}
				answer.Question = domain.QuestionByName(name)
			}
		}
	}

	if newName == "" {
		newName = source.Name + " (copy)"
	}
	target := &domain.Project{
		Name:                 newName,
		Language:             source.Language,
		AuxiliaryColumnNames: source.AuxiliaryColumnNames,
		Translate:            source.Translate,
		TranslationEngine:    source.TranslationEngine,
		Questions:            questions,
	}

	return c.uploader.CreateWithRows(ctx, target, rows, opts)
}
