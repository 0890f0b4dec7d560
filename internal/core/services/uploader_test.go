package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
)

// fakeAPI implements driven.CodingAPI for service tests. Only the
// methods a test exercises need behaviour; the rest fail loudly.
type fakeAPI struct {
	projects map[int]*domain.Project
	rows     map[int][]domain.Row

	addRowsCalls [][]domain.Row
	failBatches  map[int]error // batch index -> error

	createdProject *domain.Project
	nextProjectID  int
	nextQuestionID int

	updatedQuestion  *domain.Question
	trainingRequests []int
}

var _ driven.CodingAPI = (*fakeAPI)(nil)

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		projects:      map[int]*domain.Project{},
		rows:          map[int][]domain.Row{},
		failBatches:    map[int]error{},
		nextProjectID:  100,
		nextQuestionID: 900,
	}
}

func (f *fakeAPI) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	for _, p := range f.projects {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeAPI) ListInheritableProjects(ctx context.Context) ([]domain.Project, error) {
	return f.ListProjects(ctx)
}

func (f *fakeAPI) GetProject(ctx context.Context, id int) (*domain.Project, error) {
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d not found", id)
	}
	return p, nil
}

func (f *fakeAPI) CreateProject(ctx context.Context, project *domain.Project, opts driven.UploadOptions) (*domain.Project, error) {
	created := *project
	id := f.nextProjectID
	f.nextProjectID++
	created.ID = &id

	// The server mints question ids at creation time.
	created.Questions = make([]domain.Question, len(project.Questions))
	copy(created.Questions, project.Questions)
	for i := range created.Questions {
		qid := f.nextQuestionID
		f.nextQuestionID++
		created.Questions[i].ID = &qid
	}

	f.createdProject = &created
	f.projects[id] = &created
	return &created, nil
}

func (f *fakeAPI) DeleteProject(ctx context.Context, id int) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeAPI) AddRows(ctx context.Context, projectID int, rows []domain.Row, opts driven.UploadOptions) error {
	idx := len(f.addRowsCalls)
	f.addRowsCalls = append(f.addRowsCalls, rows)
	if err, ok := f.failBatches[idx]; ok {
		return err
	}
	f.rows[projectID] = append(f.rows[projectID], rows...)
	return nil
}

func (f *fakeAPI) ListRows(ctx context.Context, projectID int) ([]domain.Row, error) {
	return f.rows[projectID], nil
}

func (f *fakeAPI) ListQuestions(ctx context.Context, projectID int) ([]domain.Question, error) {
	p, err := f.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Questions, nil
}

func (f *fakeAPI) GetQuestion(ctx context.Context, id int) (*domain.Question, error) {
	for _, p := range f.projects {
		for _, q := range p.Questions {
			if q.ID != nil && *q.ID == id {
				return &q, nil
			}
		}
	}
	return nil, fmt.Errorf("question %d not found", id)
}

func (f *fakeAPI) UpdateQuestion(ctx context.Context, question *domain.Question, requestTraining bool) (*domain.Question, error) {
	f.updatedQuestion = question
	return question, nil
}

func (f *fakeAPI) DeleteQuestion(ctx context.Context, id int) error { return nil }

func (f *fakeAPI) ListAnswers(ctx context.Context, questionID int, grouped bool) ([]domain.Answer, error) {
	return nil, nil
}

func (f *fakeAPI) RequestTraining(ctx context.Context, questionID int) error {
	f.trainingRequests = append(f.trainingRequests, questionID)
	return nil
}

func (f *fakeAPI) GetPredictions(ctx context.Context, questionID int) (*domain.Predictions, error) {
	return nil, domain.ErrNoPredictions
}

func makeRows(n int) []domain.Row {
	rows := make([]domain.Row, n)
	for i := range rows {
		rows[i] = domain.Row{Answers: []domain.Answer{{
			Text:     fmt.Sprintf("answer %d", i),
			Question: domain.QuestionByName("Why?"),
		}}}
	}
	return rows
}

func newTestUploader(api *fakeAPI) *Uploader {
	u := NewUploader(api, nil)
	u.sleep = func(ctx context.Context, d time.Duration) {}
	return u
}

func TestAppendBatches(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)
	uploader.SetBatchSize(10)

	report, err := uploader.Append(context.Background(), 7, makeRows(25), driven.UploadOptions{})
	require.NoError(t, err)

	require.Len(t, report.Batches, 3)
	assert.Equal(t, 3, report.Succeeded())
	assert.Equal(t, 25, report.RowsUploaded())
	assert.Equal(t, 25, report.TotalRows)
	assert.Len(t, api.rows[7], 25)

	// Batches are contiguous and in order.
	assert.Equal(t, 0, report.Batches[0].FirstRow)
	assert.Equal(t, 10, report.Batches[1].FirstRow)
	assert.Equal(t, 20, report.Batches[2].FirstRow)
	assert.Equal(t, 5, report.Batches[2].RowCount)
}

func TestAppendContinuesAfterFailure(t *testing.T) {
	api := newFakeAPI()
	api.failBatches[1] = errors.New("server hiccup")
	uploader := newTestUploader(api)
	uploader.SetBatchSize(10)

	report, err := uploader.Append(context.Background(), 7, makeRows(30), driven.UploadOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded())
	assert.Equal(t, 1, report.Failed())
	assert.Equal(t, 20, report.RowsUploaded())
	assert.Equal(t, domain.BatchFailed, report.Batches[1].Status)
	assert.Contains(t, report.Batches[1].Error, "server hiccup")
	// The third batch still went out after the second failed.
	assert.Len(t, api.addRowsCalls, 3)
}

func TestAppendEmptyRows(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)

	report, err := uploader.Append(context.Background(), 7, nil, driven.UploadOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Batches)
	assert.Zero(t, len(api.addRowsCalls))
}

func TestCreateWithRows(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)
	uploader.SetBatchSize(2)

	project := &domain.Project{
		Name:      "Survey",
		Language:  "en",
		Questions: []domain.Question{domain.NewQuestion("Why?", nil)},
	}
	created, report, err := uploader.CreateWithRows(context.Background(), project, makeRows(5), driven.UploadOptions{})
	require.NoError(t, err)
	require.NotNil(t, created.ID)
	assert.Equal(t, 100, *created.ID)
	assert.Equal(t, 3, report.Succeeded())
	assert.Len(t, api.rows[100], 5)
}

func TestDryRunSkipsAPI(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)
	uploader.SetBatchSize(10)
	uploader.SetDryRun(true)

	project := &domain.Project{Name: "Survey", Language: "en"}
	_, report, err := uploader.CreateWithRows(context.Background(), project, makeRows(15), driven.UploadOptions{})
	require.NoError(t, err)

	assert.Nil(t, api.createdProject)
	assert.Zero(t, len(api.addRowsCalls))
	assert.True(t, report.DryRun)
	require.Len(t, report.Batches, 2)
	assert.Equal(t, domain.BatchSkipped, report.Batches[0].Status)
	assert.Zero(t, report.RowsUploaded())
}

func TestCreateWithRowsRekeysAnswersToQuestionIDs(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)

	project := &domain.Project{
		Name:      "Survey",
		Language:  "en",
		Questions: []domain.Question{domain.NewQuestion("Why?", nil)},
	}
	created, _, err := uploader.CreateWithRows(context.Background(), project, makeRows(2), driven.UploadOptions{})
	require.NoError(t, err)
	require.Len(t, created.Questions, 1)
	require.NotNil(t, created.Questions[0].ID)

	// Rows sent after creation reference the server question id, never
	// the name.
	for _, row := range api.rows[*created.ID] {
		ref := row.Answers[0].Question
		require.NotNil(t, ref.ID)
		assert.Equal(t, *created.Questions[0].ID, *ref.ID)
		assert.Empty(t, ref.Name)
	}
	wire, err := json.Marshal(api.rows[*created.ID][0].Answers[0])
	require.NoError(t, err)
	assert.Contains(t, string(wire), `"question":900`)
	assert.NotContains(t, string(wire), `"question":"Why?"`)
}

func TestCreateWithRowsUnknownQuestionName(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)

	project := &domain.Project{
		Name:      "Survey",
		Language:  "en",
		Questions: []domain.Question{domain.NewQuestion("Why?", nil)},
	}
	rows := []domain.Row{
		{Answers: []domain.Answer{{Text: "stray", Question: domain.QuestionByName("Other?")}}},
	}
	_, _, err := uploader.CreateWithRows(context.Background(), project, rows, driven.UploadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, len(api.addRowsCalls))
}

func TestRekeyAnswersLeavesIDRefsAlone(t *testing.T) {
	qid := 7
	rows := []domain.Row{
		{Answers: []domain.Answer{{Text: "a", Question: domain.QuestionByID(qid)}}},
	}
	err := RekeyAnswers(rows, nil)
	require.NoError(t, err)
	require.NotNil(t, rows[0].Answers[0].Question.ID)
	assert.Equal(t, qid, *rows[0].Answers[0].Question.ID)
}

func TestAppendStopsOnCancelledContext(t *testing.T) {
	api := newFakeAPI()
	uploader := newTestUploader(api)
	uploader.SetBatchSize(10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := uploader.Append(ctx, 7, makeRows(30), driven.UploadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, report.Batches)
}
