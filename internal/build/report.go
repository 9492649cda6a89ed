package build

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/featurebrowser/internal/index"
	"git.home.luguber.info/inful/featurebrowser/internal/linkverify"
	"git.home.luguber.info/inful/featurebrowser/internal/metrics"
)

// Outcome is the final state of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// Skip records a discovered file that did not make it into the index.
type Skip struct {
	Path   string    `json:"path"`
	Stage  StageName `json:"stage"`
	Reason string    `json:"reason"`
}

// Report summarizes one run.
type Report struct {
	BuildID string    `json:"build_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Output  string    `json:"output"`
	Outcome Outcome   `json:"outcome"`
	Error   string    `json:"error,omitempty"`
	Strict  bool      `json:"strict,omitempty"`

	Discovered  int            `json:"discovered"`
	Documents   int            `json:"documents"`
	Scenarios   int            `json:"scenarios"`
	Directories int            `json:"directories"`
	Tags        int            `json:"tags"`
	Pages       map[string]int `json:"pages"`
	Assets      int            `json:"assets"`

	Skipped       []Skip                  `json:"skipped,omitempty"`
	Collisions    []index.Collision       `json:"collisions,omitempty"`
	CaseConflicts []index.CaseConflict    `json:"case_conflicts,omitempty"`
	Overwritten   []string                `json:"overwritten,omitempty"`
	BrokenLinks   []linkverify.BrokenLink `json:"broken_links,omitempty"`

	StageDurations map[StageName]time.Duration `json:"stage_durations"`
}

func newReport(buildID, output string) *Report {
	return &Report{
		BuildID:        buildID,
		Start:          time.Now(),
		Output:         output,
		Pages:          make(map[string]int),
		StageDurations: make(map[StageName]time.Duration),
	}
}

func (r *Report) warningCount() int {
	return len(r.Skipped) + len(r.Collisions) + len(r.CaseConflicts) + len(r.Overwritten) + len(r.BrokenLinks)
}

// HasWarnings reports whether anything was skipped, overwritten or broken.
func (r *Report) HasWarnings() bool { return r.warningCount() > 0 }

// PagesWritten is the total number of pages across kinds.
func (r *Report) PagesWritten() int {
	n := 0
	for _, c := range r.Pages {
		n += c
	}
	return n
}

// Duration is the wall time of the run.
func (r *Report) Duration() time.Duration { return r.End.Sub(r.Start) }

func (r *Report) finish(err error) {
	r.End = time.Now()
	switch {
	case err != nil:
		r.Outcome = OutcomeFailed
		r.Error = err.Error()
	case r.HasWarnings():
		r.Outcome = OutcomeWarning
	default:
		r.Outcome = OutcomeSuccess
	}
}

func (r *Report) metricsOutcome() metrics.BuildOutcomeLabel {
	switch r.Outcome {
	case OutcomeFailed:
		return metrics.OutcomeFailed
	case OutcomeWarning:
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeSuccess
	}
}

// Summary returns a human-readable single-line summary.
func (r *Report) Summary() string {
	return fmt.Sprintf("documents=%d skipped=%d scenarios=%d directories=%d tags=%d pages=%d collisions=%d broken_links=%d duration=%s outcome=%s",
		r.Documents, len(r.Skipped), r.Scenarios, r.Directories, r.Tags, r.PagesWritten(),
		len(r.Collisions), len(r.BrokenLinks), r.Duration().Truncate(time.Millisecond), r.Outcome)
}

// WriteJSON writes the report to path through a temporary file and rename.
func (r *Report) WriteJSON(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report json: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}
