package site

import (
	"context"
	"maps"
	"slices"

	ferrors "git.home.luguber.info/inful/featurebrowser/internal/foundation/errors"
	"git.home.luguber.info/inful/featurebrowser/internal/index"
	"git.home.luguber.info/inful/featurebrowser/internal/logfields"
	"git.home.luguber.info/inful/featurebrowser/internal/metrics"
	"git.home.luguber.info/inful/featurebrowser/internal/observability"
	"git.home.luguber.info/inful/featurebrowser/internal/util/sets"
)

// Renderer turns a page and its view model into file content.
type Renderer interface {
	Render(page Page, payload any) ([]byte, error)
}

// AssetProvider is implemented by renderers that ship static files
// (stylesheets, scripts) alongside the pages.
type AssetProvider interface {
	Assets() map[string][]byte
}

// Writer is the destination of a run.
type Writer interface {
	Clear() error
	Write(rel string, data []byte) error
}

// Stats summarizes an emission.
type Stats struct {
	Pages       map[PageKind]int
	Assets      int
	Overwritten []string // targets written more than once
}

// Total returns the number of pages written.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.Pages {
		n += c
	}
	return n
}

// Emitter drives one render and write per planned page.
type Emitter struct {
	renderer Renderer
	writer   Writer
	recorder metrics.Recorder
}

// NewEmitter creates an Emitter. A nil recorder disables metrics.
func NewEmitter(renderer Renderer, writer Writer, recorder metrics.Recorder) *Emitter {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Emitter{renderer: renderer, writer: writer, recorder: recorder}
}

// Emit clears the destination and writes every page of idx. The first
// render or write failure aborts emission; pages already written stay on disk.
func (e *Emitter) Emit(ctx context.Context, idx *index.Index, meta Meta) (Stats, error) {
	stats := Stats{Pages: make(map[PageKind]int)}

	if err := e.writer.Clear(); err != nil {
		return stats, err
	}

	if ap, ok := e.renderer.(AssetProvider); ok {
		assets := ap.Assets()
		for _, name := range slices.Sorted(maps.Keys(assets)) {
			if err := e.writer.Write(name, assets[name]); err != nil {
				return stats, err
			}
			stats.Assets++
		}
	}

	written := sets.New[string]()
	for _, planned := range Plan(idx, meta) {
		page := planned.Page
		data, err := e.renderer.Render(page, planned.Payload)
		if err != nil {
			return stats, ferrors.WrapError(err, ferrors.CategoryRender, "render page").
				Fatal().
				WithContext("path", page.Target).
				WithContext("kind", string(page.Kind)).
				Build()
		}
		if written.Has(page.Target) {
			observability.WarnContext(ctx, "Page target written twice; later page wins",
				logfields.Target(page.Target), logfields.PageKind(string(page.Kind)))
			stats.Overwritten = append(stats.Overwritten, page.Target)
		}
		if err := e.writer.Write(page.Target, data); err != nil {
			return stats, err
		}
		written.Add(page.Target)
		stats.Pages[page.Kind]++
		e.recorder.IncPageWritten(string(page.Kind))
		observability.DebugContext(ctx, "Page written", logfields.PageKind(string(page.Kind)), logfields.Target(page.Target))
	}

	return stats, nil
}
