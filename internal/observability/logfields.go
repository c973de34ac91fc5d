package observability

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeySessionID  = "session_id"
	KeySection    = "section"
	KeyStep       = "step"
	KeyOperation  = "operation"
	KeyDurationMS = "duration_ms"
	KeyStatus     = "status"
	KeySequence   = "seq"
	KeyPath       = "path"
	KeyError      = "error"
)

func SessionID(id string) slog.Attr { return slog.String(KeySessionID, id) }
func Section(s string) slog.Attr    { return slog.String(KeySection, s) }
func Step(name string) slog.Attr    { return slog.String(KeyStep, name) }
func Operation(op string) slog.Attr { return slog.String(KeyOperation, op) }
func DurationMS(ms int64) slog.Attr { return slog.Int64(KeyDurationMS, ms) }
func Status(code int) slog.Attr     { return slog.Int(KeyStatus, code) }
func Sequence(seq uint64) slog.Attr { return slog.Uint64(KeySequence, seq) }
func Path(p string) slog.Attr       { return slog.String(KeyPath, p) }
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
