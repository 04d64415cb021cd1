// Package metrics records import activity. Components take a Recorder and
// default to NoopRecorder so metrics stay optional.
package metrics

import "time"

// Run outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Recorder receives import observations.
type Recorder interface {
	// IncFileResult counts one file outcome (imported, updated, skipped, error).
	IncFileResult(status string)
	// IncImportRun counts a finished import run by outcome.
	IncImportRun(outcome string)
	ObserveImportDuration(d time.Duration)
	AddPruned(n int)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) IncFileResult(string)                {}
func (NoopRecorder) IncImportRun(string)                 {}
func (NoopRecorder) ObserveImportDuration(time.Duration) {}
func (NoopRecorder) AddPruned(int)                       {}
