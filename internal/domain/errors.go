package domain

import "fmt"

// Stage identifies the pipeline step that produced a failure.
type Stage string

const (
	StageEmbedding  Stage = "embedding"
	StageSearch     Stage = "search"
	StageFormatting Stage = "formatting"
	StageGeneration Stage = "generation"
)

// StageError wraps a provider or formatting failure with the pipeline
// stage it occurred in. It is caught at exactly one boundary, the
// answer usecase, which logs it and returns the fallback answer. It
// never crosses the usecase boundary.
type StageError struct {
	Stage Stage
	Err   error
}

func NewStageError(stage Stage, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
