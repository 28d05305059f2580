package sdk

import (
	"errors"
	"fmt"
)

// Sentinel errors for common SDK error conditions. These can be checked
// with errors.Is().
var (
	// ErrNoStages indicates a pipeline run with no stages added.
	ErrNoStages = errors.New("pipeline has no stages")

	// ErrInvalidConfig indicates an invalid or incomplete configuration.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StageError wraps a failure of one pipeline stage with the stage name,
// so a multi-stage run reports where it stopped. It supports errors.Is
// and errors.As through Unwrap.
type StageError struct {
	// Stage is the name of the failed stage.
	Stage string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %q: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}
