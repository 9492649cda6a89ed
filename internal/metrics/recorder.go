package metrics

import "time"

// ResultLabel enumerates stage result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultWarning ResultLabel = "warning"
	ResultFatal   ResultLabel = "fatal"
)

// BuildOutcomeLabel is the final status of a run.
type BuildOutcomeLabel string

const (
	OutcomeSuccess BuildOutcomeLabel = "success"
	OutcomeWarning BuildOutcomeLabel = "warning"
	OutcomeFailed  BuildOutcomeLabel = "failed"
)

// DocumentResult classifies what happened to one discovered document.
type DocumentResult string

const (
	DocumentIndexed DocumentResult = "indexed"
	DocumentSkipped DocumentResult = "skipped"
)

// Recorder defines observability hooks for build, stage, document and page metrics.
type Recorder interface {
	ObserveStageDuration(stage string, d time.Duration)
	ObserveBuildDuration(d time.Duration)
	IncStageResult(stage string, result ResultLabel)
	IncBuildOutcome(outcome BuildOutcomeLabel)
	IncDocument(result DocumentResult)
	IncPageWritten(kind string)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, time.Duration) {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)         {}
func (NoopRecorder) IncStageResult(string, ResultLabel)         {}
func (NoopRecorder) IncBuildOutcome(BuildOutcomeLabel)          {}
func (NoopRecorder) IncDocument(DocumentResult)                 {}
func (NoopRecorder) IncPageWritten(string)                      {}
