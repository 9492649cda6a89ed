package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyFile       = "file"
	KeyRoot       = "root"
	KeyOutput     = "output"
	KeyIdentifier = "identifier"
	KeyDirectory  = "directory"
	KeyTag        = "tag"
	KeyPageKind   = "page_kind"
	KeyTarget     = "target"
	KeyCount      = "count"
	KeyReason     = "reason"
	KeyError      = "error"
	KeyCategory   = "category"
	KeyOp         = "op"
	KeySummary    = "summary"
	KeyDebounce   = "debounce"
	KeyInterval   = "interval"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr    { return slog.String(KeyBuildID, id) }
func Stage(name string) slog.Attr    { return slog.String(KeyStage, name) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func File(f string) slog.Attr        { return slog.String(KeyFile, f) }
func Root(r string) slog.Attr        { return slog.String(KeyRoot, r) }
func Output(o string) slog.Attr      { return slog.String(KeyOutput, o) }
func Identifier(id string) slog.Attr { return slog.String(KeyIdentifier, id) }
func Directory(d string) slog.Attr   { return slog.String(KeyDirectory, d) }
func Tag(t string) slog.Attr         { return slog.String(KeyTag, t) }
func PageKind(k string) slog.Attr    { return slog.String(KeyPageKind, k) }
func Target(t string) slog.Attr      { return slog.String(KeyTarget, t) }
func Count(n int) slog.Attr          { return slog.Int(KeyCount, n) }
func Reason(r string) slog.Attr      { return slog.String(KeyReason, r) }
func Category(c string) slog.Attr    { return slog.String(KeyCategory, c) }
func Op(op string) slog.Attr         { return slog.String(KeyOp, op) }
func Summary(s string) slog.Attr     { return slog.String(KeySummary, s) }

func Debounce(d time.Duration) slog.Attr { return slog.Duration(KeyDebounce, d) }
func Interval(d time.Duration) slog.Attr { return slog.Duration(KeyInterval, d) }

// Duration records d in milliseconds with microsecond precision.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
