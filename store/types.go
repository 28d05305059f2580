package store

import (
	"fmt"
	"time"
)

// Batch is one unit of raw statements submitted for assembly. A job may
// be split into several batches processed by independent workers.
type Batch struct {
	// JobID is a UUID correlating all batches of one assembly job.
	JobID string `json:"job_id"`

	// Index is the position of this batch in the job (0-based).
	Index int `json:"index"`

	// Total is the total number of batches in the job.
	Total int `json:"total"`

	// Source names the reader or database the statements came from.
	Source string `json:"source"`

	// StatementsJSON is the raw statement list in the exchange JSON
	// format.
	StatementsJSON string `json:"statements_json"`

	// TraceID and SpanID carry the distributed tracing context of the
	// submitter.
	TraceID string `json:"trace_id,omitempty"`
	SpanID  string `json:"span_id,omitempty"`

	// SubmittedAt is the Unix timestamp in milliseconds when the batch
	// was submitted.
	SubmittedAt int64 `json:"submitted_at"`
}

// IsValid checks that the batch has all required fields populated.
func (b *Batch) IsValid() error {
	if b.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if b.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", b.Index)
	}
	if b.Total <= 0 {
		return fmt.Errorf("total must be positive, got %d", b.Total)
	}
	if b.Index >= b.Total {
		return fmt.Errorf("index %d is out of bounds for total %d", b.Index, b.Total)
	}
	if b.Source == "" {
		return fmt.Errorf("source is required")
	}
	if b.StatementsJSON == "" {
		return fmt.Errorf("statements_json is required")
	}
	if b.SubmittedAt <= 0 {
		return fmt.Errorf("submitted_at must be positive, got %d", b.SubmittedAt)
	}
	return nil
}

// Age returns the duration since the batch was submitted. Useful for
// detecting stale batches and computing queue wait time.
func (b *Batch) Age() time.Duration {
	if b.SubmittedAt <= 0 {
		return 0
	}
	now := time.Now().UnixMilli()
	return time.Duration(now-b.SubmittedAt) * time.Millisecond
}

// AssemblyResult is the outcome of assembling one batch, published to
// the job's pub/sub channel for the submitter to collect.
type AssemblyResult struct {
	// JobID correlates the result with the original batch.
	JobID string `json:"job_id"`

	// Index is the position of the batch in the job.
	Index int `json:"index"`

	// StatementsJSON is the assembled statement list in the exchange
	// JSON format. Empty if Error is set.
	StatementsJSON string `json:"statements_json,omitempty"`

	// Error is the failure message when assembly failed.
	Error string `json:"error,omitempty"`

	// WorkerID identifies the worker that processed the batch.
	WorkerID string `json:"worker_id"`

	// StartedAt and CompletedAt are Unix timestamps in milliseconds.
	StartedAt   int64 `json:"started_at"`
	CompletedAt int64 `json:"completed_at"`
}

// HasError reports whether the result represents a failed assembly.
func (r *AssemblyResult) HasError() bool {
	return r.Error != ""
}

// Duration returns the wall-clock time the worker spent on the batch.
func (r *AssemblyResult) Duration() time.Duration {
	if r.StartedAt <= 0 || r.CompletedAt <= 0 {
		return 0
	}
	return time.Duration(r.CompletedAt-r.StartedAt) * time.Millisecond
}

// IsValid checks that the result has all required fields populated.
func (r *AssemblyResult) IsValid() error {
	if r.JobID == "" {
		return fmt.Errorf("job_id is required")
	}
	if r.Index < 0 {
		return fmt.Errorf("index must be non-negative, got %d", r.Index)
	}
	if r.WorkerID == "" {
		return fmt.Errorf("worker_id is required")
	}
	if r.StartedAt <= 0 {
		return fmt.Errorf("started_at must be positive, got %d", r.StartedAt)
	}
	if r.CompletedAt <= 0 {
		return fmt.Errorf("completed_at must be positive, got %d", r.CompletedAt)
	}
	if r.CompletedAt < r.StartedAt {
		return fmt.Errorf("completed_at (%d) cannot be before started_at (%d)", r.CompletedAt, r.StartedAt)
	}
	if !r.HasError() && r.StatementsJSON == "" {
		return fmt.Errorf("statements_json is required when error is empty")
	}
	return nil
}

// CorpusMeta describes a stored corpus. It is kept in a Redis hash and
// used for corpus discovery.
type CorpusMeta struct {
	// Name is the unique corpus identifier.
	Name string `json:"name"`

	// Description is a human-readable description of the corpus.
	Description string `json:"description"`

	// StatementCount is the number of statements in the corpus.
	StatementCount int `json:"statement_count"`

	// Sources lists the reader and database sources that contributed.
	Sources []string `json:"sources"`

	// UpdatedAt is the Unix timestamp in milliseconds of the last save.
	UpdatedAt int64 `json:"updated_at"`
}

// IsValid checks that the metadata has all required fields populated.
func (m *CorpusMeta) IsValid() error {
	if m.Name == "" {
		return fmt.Errorf("corpus name is required")
	}
	if m.StatementCount < 0 {
		return fmt.Errorf("statement_count must be non-negative, got %d", m.StatementCount)
	}
	return nil
}

// HasSource reports whether the corpus includes statements from the
// given source.
func (m *CorpusMeta) HasSource(source string) bool {
	for _, s := range m.Sources {
		if s == source {
			return true
		}
	}
	return false
}
