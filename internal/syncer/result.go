package syncer

import (
	"errors"
)

// Status is the overall outcome of a run.
type Status string

const (
	// StatusSuccess means every document synced.
	StatusSuccess Status = "success"
	// StatusPartial means at least one document failed and the rest
	// were attempted.
	StatusPartial Status = "partial"
	// StatusFailed means the run stopped before the per-document loop.
	StatusFailed Status = "failed"
)

// Result aggregates a run across documents.
type Result struct {
	Status       Status   `json:"status"`
	UpdatedPages []string `json:"updated_pages"`
	Errors       []string `json:"errors,omitempty"`
}

func newResult() Result {
	return Result{Status: StatusSuccess, UpdatedPages: []string{}}
}

// fail records a per-document failure and degrades the status.
func (r *Result) fail(msg string) {
	r.Errors = append(r.Errors, msg)
	if r.Status == StatusSuccess {
		r.Status = StatusPartial
	}
}

// Err joins the recorded errors, or returns nil when there are none.
func (r Result) Err() error {
	errs := make([]error, len(r.Errors))
	for i, msg := range r.Errors {
		errs[i] = errors.New(msg)
	}

	return errors.Join(errs...)
}
