package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyDurationMS = "duration_ms"
	KeyPath       = "path"
	KeyRoot       = "root"
	KeyOutput     = "output"
	KeyName       = "name"
	KeyKind       = "kind"
	KeyCount      = "count"
	KeyDocument   = "document"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func RunID(id string) slog.Attr        { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr      { return slog.String(KeyStage, name) }
func DurationMS(ms float64) slog.Attr  { return slog.Float64(KeyDurationMS, ms) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Root(p string) slog.Attr          { return slog.String(KeyRoot, p) }
func Output(p string) slog.Attr        { return slog.String(KeyOutput, p) }
func Name(n string) slog.Attr          { return slog.String(KeyName, n) }
func Kind(k string) slog.Attr          { return slog.String(KeyKind, k) }
func Count(n int) slog.Attr            { return slog.Int(KeyCount, n) }
func Document(name string) slog.Attr   { return slog.String(KeyDocument, name) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
