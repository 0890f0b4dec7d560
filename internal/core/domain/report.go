package domain

import "time"

// BatchStatus is the outcome of one submitted batch.
type BatchStatus string

const (
	BatchSucceeded BatchStatus = "succeeded"
	BatchFailed    BatchStatus = "failed"
	BatchSkipped   BatchStatus = "skipped" // dry-run
)

// BatchResult records one batch submission: which contiguous row range it
// covered and how the server answered. Error carries the server's status
// code and message verbatim when the batch failed.
type BatchResult struct {
	Index    int
	FirstRow int
	RowCount int
	Status   BatchStatus
	Error    string
}

// UploadReport is the final tally of one upload run. Partial uploads
// (some batches landed, some did not) are an accepted end state; the
// report is what lets the operator find and re-run the failed ranges.
type UploadReport struct {
	ID         string
	ProjectID  int
	StartedAt  time.Time
	FinishedAt time.Time
	BatchSize  int
	TotalRows  int
	DryRun     bool
	Batches    []BatchResult
}

// Succeeded returns the number of batches that landed.
func (r *UploadReport) Succeeded() int { return r.countStatus(BatchSucceeded) }

// Failed returns the number of batches that did not land.
func (r *UploadReport) Failed() int { return r.countStatus(BatchFailed) }

// RowsUploaded returns the number of rows in succeeded batches.
func (r *UploadReport) RowsUploaded() int {
	n := 0
	for _, b := range r.Batches {
		if b.Status == BatchSucceeded {
			n += b.RowCount
		}
	}
	return n
}

func (r *UploadReport) countStatus(s BatchStatus) int {
	n := 0
	for _, b := range r.Batches {
		if b.Status == s {
			n++
		}
	}
	return n
}
