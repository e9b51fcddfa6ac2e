package audio

import (
	"errors"
	"time"
)

// OutcomeKind is the terminal state of one attempted file
type OutcomeKind string

const (
	OutcomeSucceeded OutcomeKind = "succeeded"
	OutcomeSkipped   OutcomeKind = "skipped"
	OutcomeFailed    OutcomeKind = "failed"
)

// Outcome is Success, Skipped(reason) or Failed(reason)
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Err    error // classified cause; nil on success
}

// Success returns a succeeded outcome
func Success() Outcome {
	return Outcome{Kind: OutcomeSucceeded}
}

// Skip returns a skipped outcome caused by err
func Skip(err error) Outcome {
	return Outcome{Kind: OutcomeSkipped, Reason: err.Error(), Err: err}
}

// Fail returns a failed outcome caused by err
func Fail(err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: err.Error(), Err: err}
}

// Is reports whether the outcome's cause matches target
func (o Outcome) Is(target error) bool {
	return o.Err != nil && errors.Is(o.Err, target)
}

func (o Outcome) String() string {
	if o.Reason == "" {
		return string(o.Kind)
	}
	return string(o.Kind) + ": " + o.Reason
}

// ConversionResult records what happened to one source file. It is not modified after creation.
type ConversionResult struct {
	SourcePath      string
	DestinationPath string
	Outcome         Outcome
	Duration        time.Duration // wall-clock time spent in the backend only
}

// DurationMs returns Duration in whole milliseconds
func (r ConversionResult) DurationMs() int64 {
	return r.Duration.Milliseconds()
}

// Succeeded reports whether the conversion produced an output file
func (r ConversionResult) Succeeded() bool {
	return r.Outcome.Kind == OutcomeSucceeded
}

// BatchReport aggregates the results of a batch in candidate order
type BatchReport struct {
	RunID     string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Results   []ConversionResult
}

// Add appends a result and updates the counters
func (r *BatchReport) Add(result ConversionResult) {
	r.Results = append(r.Results, result)
	r.Total++
	switch result.Outcome.Kind {
	case OutcomeSucceeded:
		r.Succeeded++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	}
}

// HasFailures returns true if at least one file failed
func (r *BatchReport) HasFailures() bool {
	return r.Failed > 0
}
