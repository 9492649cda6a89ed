package build

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/featurebrowser/internal/config"
	"git.home.luguber.info/inful/featurebrowser/internal/discovery"
	"git.home.luguber.info/inful/featurebrowser/internal/feature"
	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
	"git.home.luguber.info/inful/featurebrowser/internal/gherkin"
	"git.home.luguber.info/inful/featurebrowser/internal/index"
	"git.home.luguber.info/inful/featurebrowser/internal/linkverify"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
	"git.home.luguber.info/inful/featurebrowser/internal/metrics"
	"git.home.luguber.info/inful/featurebrowser/internal/observability"
	"git.home.luguber.info/inful/featurebrowser/internal/output"
	"git.home.luguber.info/inful/featurebrowser/internal/paths"
	"git.home.luguber.info/inful/featurebrowser/internal/render"
	"git.home.luguber.info/inful/featurebrowser/internal/site"
)

// ErrStrict is returned in strict mode when a run produced warnings.
var ErrStrict = errors.New("strict mode: run produced warnings")

// Options adjust a single run. Zero values select the defaults.
type Options struct {
	// OutputDir overrides the configured output directory.
	OutputDir string
	// Strict turns skipped documents, identifier collisions and broken
	// links into a failure.
	Strict bool

	Recorder metrics.Recorder
	Parser   gherkin.Parser
	Renderer site.Renderer
}

type parsed struct {
	doc *feature.Document
	loc paths.Location
}

type runner struct {
	cfg          config.Config
	opts         Options
	featuresRoot string
	outputRoot   string
	report       *Report
	recorder     metrics.Recorder
	parser       gherkin.Parser
	renderer     site.Renderer

	candidates []discovery.Candidate
	documents  []parsed
	idx        *index.Index
}

// Run performs one complete generation. The returned report is non-nil
// whenever the configuration was valid, including on failure.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	effective := *cfg
	if opts.OutputDir != "" {
		effective.OutputDirectory = opts.OutputDir
	}
	if err := effective.Validate(); err != nil {
		return nil, err
	}

	r, err := newRunner(effective, opts)
	if err != nil {
		return nil, err
	}

	var textfile *metrics.PrometheusRecorder
	if r.recorder == nil {
		if effective.MetricsFile != "" {
			textfile = metrics.NewPrometheusRecorder(nil)
			r.recorder = textfile
		} else {
			r.recorder = metrics.NoopRecorder{}
		}
	}

	ctx = observability.WithBuildID(ctx, r.report.BuildID)
	observability.InfoContext(ctx, "Build started", logfields.Root(r.featuresRoot), logfields.Output(r.outputRoot))

	err = r.run(ctx)
	r.report.finish(err)
	r.recorder.ObserveBuildDuration(r.report.Duration())
	r.recorder.IncBuildOutcome(r.report.metricsOutcome())

	if textfile != nil {
		if werr := textfile.WriteTextfile(effective.MetricsFile); werr != nil {
			observability.WarnContext(ctx, "Failed to write metrics file", logfields.Path(effective.MetricsFile), logfields.Error(werr))
		}
	}

	if err != nil {
		return r.report, err
	}
	observability.InfoContext(ctx, "Build completed", logfields.Duration(r.report.Duration()),
		logfields.Count(r.report.PagesWritten()), logfields.Reason(string(r.report.Outcome)))
	return r.report, nil
}

// Index runs only the discover, parse and index stages. Nothing is written,
// so the output directory is neither validated nor touched. Skips are
// recorded in the report exactly as Run records them.
func Index(ctx context.Context, cfg *config.Config, opts Options) (*index.Index, *Report, error) {
	if err := cfg.ValidateSettings(); err != nil {
		return nil, nil, err
	}
	r, err := newRunner(*cfg, opts)
	if err != nil {
		return nil, nil, err
	}
	if r.recorder == nil {
		r.recorder = metrics.NoopRecorder{}
	}

	ctx = observability.WithBuildID(ctx, r.report.BuildID)
	err = r.index(ctx)
	r.report.finish(err)
	if err != nil {
		return nil, r.report, err
	}
	return r.idx, r.report, nil
}

func newRunner(cfg config.Config, opts Options) (*runner, error) {
	featuresRoot, err := filepath.Abs(cfg.FeaturesDirectory)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "resolve features directory").Build()
	}
	outputRoot, err := filepath.Abs(cfg.OutputDirectory)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "resolve output directory").Build()
	}

	r := &runner{
		cfg:          cfg,
		opts:         opts,
		featuresRoot: featuresRoot,
		outputRoot:   outputRoot,
		report:       newReport(uuid.NewString(), outputRoot),
		recorder:     opts.Recorder,
		parser:       opts.Parser,
		renderer:     opts.Renderer,
	}
	r.report.Strict = opts.Strict
	if r.parser == nil {
		r.parser = gherkin.NewParser()
	}
	return r, nil
}

// index runs the stages shared by Run and Index.
func (r *runner) index(ctx context.Context) error {
	if err := runStage(ctx, StageDiscover, r.report, r.recorder, r.discover); err != nil {
		return err
	}
	if err := runStage(ctx, StageParse, r.report, r.recorder, r.parse); err != nil {
		return err
	}
	return runStage(ctx, StageIndex, r.report, r.recorder, r.buildIndex)
}

func (r *runner) run(ctx context.Context) error {
	if r.renderer == nil {
		html, err := render.NewHTML()
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryRender, "load templates").Build()
		}
		r.renderer = html
	}

	if err := r.index(ctx); err != nil {
		return err
	}
	if err := r.checkStrict(); err != nil {
		return err
	}
	if err := runStage(ctx, StageEmit, r.report, r.recorder, r.emit); err != nil {
		return err
	}
	if r.cfg.VerifyLinks {
		if err := runStage(ctx, StageVerify, r.report, r.recorder, r.verify); err != nil {
			return err
		}
		return r.checkStrict()
	}
	return nil
}

func (r *runner) discover(ctx context.Context) error {
	source := discovery.NewSource(r.featuresRoot, r.cfg.Extension, r.cfg.Exclude)
	err := source.Walk(ctx, func(c discovery.Candidate) error {
		r.report.Discovered++
		if c.Err != nil {
			r.skip(ctx, c.Path, StageDiscover, c.Err)
			return nil
		}
		r.candidates = append(r.candidates, c)
		return nil
	})
	if err != nil {
		return err
	}
	observability.InfoContext(ctx, "Feature files discovered", logfields.Count(r.report.Discovered))
	return nil
}

func (r *runner) parse(ctx context.Context) error {
	normalizer := paths.NewNormalizer(r.featuresRoot, r.cfg.Extension, r.cfg.OutputExtension)
	for _, c := range r.candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		doc, err := r.parser.Parse(c.Path, c.Content)
		if err != nil {
			r.skip(ctx, c.Path, StageParse, err)
			continue
		}
		loc, err := normalizer.Normalize(c.Path)
		if err != nil {
			r.skip(ctx, c.Path, StageParse, err)
			continue
		}
		r.documents = append(r.documents, parsed{doc: doc, loc: loc})
	}
	r.candidates = nil
	return nil
}

func (r *runner) buildIndex(ctx context.Context) error {
	builder := index.NewBuilder()
	for _, p := range r.documents {
		if err := builder.Ingest(p.doc, p.loc); err != nil {
			r.skip(ctx, p.doc.SourcePath, StageIndex, err)
			continue
		}
		r.recorder.IncDocument(metrics.DocumentIndexed)
	}
	idx := builder.Finalize()
	r.idx = idx

	for _, c := range idx.Collisions {
		observability.WarnContext(ctx, "Identifier collision; later document replaces earlier one",
			logfields.Identifier(c.Identifier), logfields.Path(c.Current), logfields.Reason("replaces "+c.Previous))
	}
	for _, c := range idx.CaseConflicts {
		observability.WarnContext(ctx, "Identifiers differ only by case",
			logfields.Identifier(c.Identifiers[0]), logfields.Count(len(c.Identifiers)))
	}

	r.report.Documents = idx.Len()
	r.report.Scenarios = idx.ScenarioCount()
	r.report.Directories = len(idx.Directories)
	r.report.Tags = len(idx.Tags)
	r.report.Collisions = idx.Collisions
	r.report.CaseConflicts = idx.CaseConflicts
	return nil
}

func (r *runner) emit(ctx context.Context) error {
	meta := site.Meta{
		ProjectName: r.cfg.ProjectName,
		BaseURL:     r.cfg.BaseURL,
		OutputExt:   r.cfg.OutputExtension,
	}
	emitter := site.NewEmitter(r.renderer, output.NewDir(r.outputRoot), r.recorder)
	stats, err := emitter.Emit(ctx, r.idx, meta)
	for kind, n := range stats.Pages {
		r.report.Pages[string(kind)] = n
	}
	r.report.Assets = stats.Assets
	r.report.Overwritten = stats.Overwritten
	return err
}

func (r *runner) verify(ctx context.Context) error {
	broken, err := linkverify.NewVerifier(r.outputRoot, r.cfg.OutputExtension, r.cfg.BaseURL).Verify(ctx)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "verify links").Build()
	}
	for _, b := range broken {
		observability.WarnContext(ctx, "Broken internal link", logfields.Path(b.Page), logfields.Target(b.URL))
	}
	r.report.BrokenLinks = broken
	return nil
}

func (r *runner) skip(ctx context.Context, path string, stage StageName, err error) {
	reason := reasonOf(err)
	r.report.Skipped = append(r.report.Skipped, Skip{Path: path, Stage: stage, Reason: reason})
	r.recorder.IncDocument(metrics.DocumentSkipped)
	observability.WarnContext(ctx, "Skipping document", logfields.Path(path), logfields.Reason(reason))
}

func (r *runner) checkStrict() error {
	if !r.opts.Strict || !r.report.HasWarnings() {
		return nil
	}
	return ferrors.WrapError(ErrStrict, ferrors.CategoryValidation, "strict mode violation").
		WithContext("warnings", r.report.warningCount()).
		Build()
}

// reasonOf strips classification decoration so reports show the root message.
func reasonOf(err error) string {
	if ce, ok := ferrors.AsClassified(err); ok && ce.Cause() != nil {
		return fmt.Sprintf("%s: %v", ce.Message(), ce.Cause())
	}
	return err.Error()
}
