package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

func intPtr(v int) *int { return &v }

func TestCopyProject(t *testing.T) {
	api := newFakeAPI()
	api.projects[1] = &domain.Project{
		ID:                   intPtr(1),
		Name:                 "Original",
		Language:             "de",
		AuxiliaryColumnNames: []string{"respondent"},
		Questions: []domain.Question{
			{ID: intPtr(11), Name: "Why?", GroupIdentical: true},
		},
	}
	api.rows[1] = []domain.Row{
		{
			AuxiliaryColumns: []string{"r1"},
			Answers: []domain.Answer{
				{ID: intPtr(501), Text: "good", Question: domain.QuestionByID(11), Reviewed: true, Codes: []int{1}},
			},
		},
	}

	copier := NewCopier(api, newTestUploader(api))
	created, report, err := copier.Copy(context.Background(), 1, "", driven.UploadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Original (copy)", created.Name)
	assert.Equal(t, "de", created.Language)
	require.Len(t, created.Questions, 1)
	assert.Equal(t, 1, report.Succeeded())

	// Uploaded answers end up keyed by the copy's server question id,
	// not the source's id and not the name.
	require.NotNil(t, created.Questions[0].ID)
	copied := api.rows[*created.ID]
	require.Len(t, copied, 1)
	answer := copied[0].Answers[0]
	assert.Nil(t, answer.ID)
	require.NotNil(t, answer.Question.ID)
	assert.Equal(t, *created.Questions[0].ID, *answer.Question.ID)
	assert.NotEqual(t, 11, *answer.Question.ID)
	assert.True(t, answer.Reviewed)
	assert.Equal(t, []int{1}, answer.Codes)
}

func TestCopyProjectKeepsTranslationSettings(t *testing.T) {
	api := newFakeAPI()
	api.projects[1] = &domain.Project{
		ID:                intPtr(1),
		Name:              "Original",
		Language:          "de",
		Translate:         true,
		TranslationEngine: domain.TranslationDeepL,
	}

	copier := NewCopier(api, newTestUploader(api))
	created, _, err := copier.Copy(context.Background(), 1, "", driven.UploadOptions{})
	require.NoError(t, err)

	assert.True(t, created.Translate)
	assert.Equal(t, domain.TranslationDeepL, created.TranslationEngine)
}

func TestCopyProjectExplicitName(t *testing.T) {
	api := newFakeAPI()
	api.projects[1] = &domain.Project{ID: intPtr(1), Name: "Original", Language: "en"}

	copier := NewCopier(api, newTestUploader(api))
	created, _, err := copier.Copy(context.Background(), 1, "Fresh", driven.UploadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Fresh", created.Name)
}

func TestCopyProjectUnknownQuestionRef(t *testing.T) {
	api := newFakeAPI()
	api.projects[1] = &domain.Project{ID: intPtr(1), Name: "Original", Language: "en"}
	api.rows[1] = []domain.Row{
		{Answers: []domain.Answer{{Text: "stray", Question: domain.QuestionByID(999)}}},
	}

	copier := NewCopier(api, newTestUploader(api))
	_, _, err := copier.Copy(context.Background(), 1, "", driven.UploadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInheritanceLink(t *testing.T) {
	api := newFakeAPI()
	api.projects[1] = &domain.Project{
		ID:       intPtr(1),
		Name:     "Target",
		Language: "en",
		Questions: []domain.Question{
			{ID: intPtr(11), Name: "Why?"},
		},
	}

	svc := NewInheritance(api)
	updated, err := svc.Link(context.Background(), 11, 99)
	require.NoError(t, err)

	require.NotNil(t, updated.InheritsFrom)
	assert.Equal(t, 99, *updated.InheritsFrom)
	assert.Equal(t, []int{11}, api.trainingRequests)
}
