package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/codelime/codelime-cli/internal/core/domain"
	"github.com/codelime/codelime-cli/internal/core/ports/driven"
	"github.com/codelime/codelime-cli/internal/logger"
)

const (
	// DefaultBatchSize is the number of rows per upload request. The
	// platform rejects larger synchronous payloads.
	DefaultBatchSize = 2000

	// DefaultAsyncWait is how long to pause between async batches so the
	// server-side queue can drain.
	DefaultAsyncWait = 20 * time.Second
)

// Uploader creates projects and appends rows in batches. A failed batch
// is recorded and skipped; later batches still go out, so one bad range
// does not sink a long upload.
type Uploader struct {
	api       driven.CodingAPI
	reports   driven.ReportStore
	batchSize int
	asyncWait time.Duration
	dryRun    bool
	sleep     func(ctx context.Context, d time.Duration)
}

// NewUploader creates an uploader. reports may be nil, in which case
// run reports are not persisted.
func NewUploader(api driven.CodingAPI, reports driven.ReportStore) *Uploader {
	return &Uploader{
		api:       api,
		reports:   reports,
		batchSize: DefaultBatchSize,
		asyncWait: DefaultAsyncWait,
		sleep:     sleepContext,
	}
}

// SetBatchSize overrides the rows-per-request batch size.
func (u *Uploader) SetBatchSize(n int) {
	if n > 0 {
		u.batchSize = n
	}
}

// SetAsyncWait overrides the pause between async batches.
func (u *Uploader) SetAsyncWait(d time.Duration) {
	if d >= 0 {
		u.asyncWait = d
	}
}

// SetDryRun makes the uploader describe what it would send instead of
// calling the API. Batches are recorded as skipped.
func (u *Uploader) SetDryRun(dry bool) {
	u.dryRun = dry
}

// CreateWithRows creates a project and uploads its rows in batches.
// The project is created empty first so a row failure never leaves the
// caller without the project id.
func (u *Uploader) CreateWithRows(
	ctx context.Context,
	project *domain.Project,
	rows []domain.Row,
	opts driven.UploadOptions,
) (*domain.Project, *domain.UploadReport, error) {
	if u.dryRun {
		payload, err := json.MarshalIndent(project, "", "  ")
		if err != nil {
			return nil, nil, err
		}
		logger.Always("dry run: would create project:\n%s", payload)
		report, err := u.Append(ctx, 0, rows, opts)
		return project, report, err
	}

	created, err := u.api.CreateProject(ctx, project, driven.UploadOptions{})
	if err != nil {
		return nil, nil, err
	}
	if created.ID == nil {
		logger.Warn("server did not return a project id, skipping row upload")
		return created, nil, nil
	}
	logger.Info("created project %d (%s)", *created.ID, created.Name)

	// The rows endpoint only accepts server question ids; names are
	// valid inline at creation time only.
	if err := RekeyAnswers(rows, created.Questions); err != nil {
		return created, nil, err
	}

	report, err := u.Append(ctx, *created.ID, rows, opts)
	return created, report, err
}

// RekeyAnswers replaces name question references with the server ids
// from questions. Answers already keyed by id are left alone.
func RekeyAnswers(rows []domain.Row, questions []domain.Question) error {
	idByName := make(map[string]int, len(questions))
	for _, q := range questions {
		if q.ID != nil {
			idByName[q.Name] = *q.ID
		}
	}

	for i := range rows {
		for j := range rows[i].Answers {
			answer := &rows[i].Answers[j]
			if answer.Question.ID != nil {
				continue
			}
			id, ok := idByName[answer.Question.Name]
			if !ok {
				return fmt.Errorf("%w: project has no question named %q",
					domain.ErrInvalidInput, answer.Question.Name)
			}
			answer.Question = domain.QuestionByID(id)
		}
	}
	return nil
}

// Append uploads rows to an existing project in contiguous batches and
// returns the run report. The returned error is non-nil only for setup
// failures or context cancellation; per-batch failures are reported in
// the report and logged.
func (u *Uploader) Append(
	ctx context.Context,
	projectID int,
	rows []domain.Row,
	opts driven.UploadOptions,
) (*domain.UploadReport, error) {
	report := &domain.UploadReport{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		StartedAt: time.Now().UTC(),
		BatchSize: u.batchSize,
		TotalRows: len(rows),
		DryRun:    u.dryRun,
	}

	numBatches := (len(rows) + u.batchSize - 1) / u.batchSize
	for i := 0; i < numBatches; i++ {
		if err := ctx.Err(); err != nil {
			u.finish(ctx, report)
			return report, err
		}

		start := i * u.batchSize
		end := start + u.batchSize
		if end > len(rows) {
			end = len(rows)
		}
		batch := domain.BatchResult{
			Index:    i,
			FirstRow: start,
			RowCount: end - start,
		}

		if u.dryRun {
			batch.Status = domain.BatchSkipped
			logger.Always("dry run: would upload batch %d/%d (rows %d-%d)", i+1, numBatches, start, end-1)
			report.Batches = append(report.Batches, batch)
			continue
		}

		logger.Info("uploading batch %d/%d (rows %d-%d)", i+1, numBatches, start, end-1)
		if err := u.api.AddRows(ctx, projectID, rows[start:end], opts); err != nil {
			batch.Status = domain.BatchFailed
			batch.Error = err.Error()
			logger.Warn("batch %d/%d failed: %v", i+1, numBatches, err)
		} else {
			batch.Status = domain.BatchSucceeded
		}
		report.Batches = append(report.Batches, batch)

		if opts.Async && i < numBatches-1 {
			u.sleep(ctx, u.asyncWait)
		}
	}

	u.finish(ctx, report)
	return report, nil
}

// finish stamps and persists a report. Persistence failures only warn;
// the upload itself already happened.
func (u *Uploader) finish(ctx context.Context, report *domain.UploadReport) {
	report.FinishedAt = time.Now().UTC()
	if u.reports == nil {
		return
	}
	if err := u.reports.Save(ctx, *report); err != nil {
		logger.Warn("could not save upload report: %v", err)
	}
}

func sleepContext(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
