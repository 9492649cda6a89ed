package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
	"git.home.luguber.info/inful/featurebrowser/internal/metrics"
	"git.home.luguber.info/inful/featurebrowser/internal/observability"
)

// StageName identifies a pipeline stage.
type StageName string

// Canonical stage names, in execution order.
const (
	StageDiscover StageName = "discover"
	StageParse    StageName = "parse"
	StageIndex    StageName = "index"
	StageEmit     StageName = "emit"
	StageVerify   StageName = "verify"
)

// runStage times fn, records its duration and result, and logs it. A stage
// that returns nil but added warnings to the report is recorded as a warning.
func runStage(ctx context.Context, name StageName, report *Report, recorder metrics.Recorder, fn func(context.Context) error) error {
	ctx = observability.WithStage(ctx, string(name))
	warningsBefore := report.warningCount()
	start := time.Now()

	err := fn(ctx)

	d := time.Since(start)
	report.StageDurations[name] = d
	recorder.ObserveStageDuration(string(name), d)

	switch {
	case err != nil:
		recorder.IncStageResult(string(name), metrics.ResultFatal)
		observability.ErrorContext(ctx, "Stage failed", logfields.Duration(d), logfields.Error(err))
	case report.warningCount() > warningsBefore:
		recorder.IncStageResult(string(name), metrics.ResultWarning)
		observability.DebugContext(ctx, "Stage completed with warnings", logfields.Duration(d))
	default:
		recorder.IncStageResult(string(name), metrics.ResultSuccess)
		observability.DebugContext(ctx, "Stage completed", logfields.Duration(d))
	}
	return err
}
