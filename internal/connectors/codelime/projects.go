package codelime

import (
	"context"
	"fmt"
	"net/http"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

// createProjectPayload is the wire shape for project creation. The API
// expresses translation as an integer flag and only accepts the engine
// when translation is on.
type createProjectPayload struct {
	Name                 string            `json:"name"`
	Language             string            `json:"language"`
	AuxiliaryColumnNames []string          `json:"auxiliary_column_names"`
	Translated           int               `json:"translated"`
	TranslationEngine    string            `json:"translation_engine,omitempty"`
	Questions            []domain.Question `json:"questions"`
	Rows                 []domain.Row      `json:"rows,omitempty"`
}

// ListProjects returns the caller's projects.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects/", nil, nil, &projects, false, http.StatusOK); err != nil {
		return nil, err
	}
	return projects, nil
}

// ListInheritableProjects returns projects whose questions can serve as
// inheritance sources.
func (c *Client) ListInheritableProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.do(ctx, http.MethodGet, "/projects-inheritable/", nil, nil, &projects, false, http.StatusOK); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches a single project with its questions.
func (c *Client) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	var project domain.Project
	path := fmt.Sprintf("/projects/%d", id)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &project, false, http.StatusOK); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project, optionally with inline rows. The
// returned project carries the server-assigned project and question ids.
func (c *Client) CreateProject(ctx context.Context, project *domain.Project, opts driven.UploadOptions) (*domain.Project, error) {
	if err := domain.CheckLanguage(project.Language); err != nil {
		return nil, err
	}

	payload := createProjectPayload{
		Name:                 project.Name,
		Language:             project.Language,
		AuxiliaryColumnNames: project.AuxiliaryColumnNames,
		Questions:            project.Questions,
		Rows:                 project.Rows,
	}
	if payload.AuxiliaryColumnNames == nil {
		payload.AuxiliaryColumnNames = []string{}
	}
	if project.Translate {
		payload.Translated = 1
		payload.TranslationEngine = project.TranslationEngine
		if payload.TranslationEngine == "" {
			payload.TranslationEngine = domain.TranslationGoogle
		}
	}

	var created domain.Project
	if err := c.do(ctx, http.MethodPost, "/projects/", uploadQuery(opts), payload, &created, false, http.StatusCreated); err != nil {
		return nil, err
	}
	return &created, nil
}

// DeleteProject removes a project and all its data.
func (c *Client) DeleteProject(ctx context.Context, id int) error {
	path := fmt.Sprintf("/projects/%d", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil, false, http.StatusNoContent)
}

// AddRows appends rows to an existing project.
func (c *Client) AddRows(ctx context.Context, projectID int, rows []domain.Row, opts driven.UploadOptions) error {
	path := fmt.Sprintf("/projects/%d/rows", projectID)
	return c.do(ctx, http.MethodPost, path, uploadQuery(opts), rows, nil, false, http.StatusCreated)
}

// ListRows returns all rows of a project.
func (c *Client) ListRows(ctx context.Context, projectID int) ([]domain.Row, error) {
	var rows []domain.Row
	path := fmt.Sprintf("/projects/%d/rows", projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &rows, false, http.StatusOK); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListQuestions returns the questions of a project.
func (c *Client) ListQuestions(ctx context.Context, projectID int) ([]domain.Question, error) {
	project, err := c.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return project.Questions, nil
}
