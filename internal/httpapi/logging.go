package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// zlog is the structured logger of the HTTP layer; disabled until SetLogger.
var zlog = zerolog.Nop()

// SetLogger installs a structured logger used by the HTTP layer.
func SetLogger(l zerolog.Logger) { zlog = l }

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch s {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

var defaultLogLevel = LevelInfo

// SetDefaultLogLevel sets the request log level used when a request carries
// no override.
func SetDefaultLogLevel(s string) { defaultLogLevel = parseLevel(s) }

// requestLogLevel honours ?log= and X-Log-Level overrides.
func requestLogLevel(r *http.Request) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return defaultLogLevel
}

// requestLogger carries the request level and id for one handler invocation.
type requestLogger struct {
	level LogLevel
	rid   string
	path  string
	start time.Time
}

func newRequestLogger(r *http.Request) requestLogger {
	return requestLogger{
		level: requestLogLevel(r),
		rid:   middleware.GetReqID(r.Context()),
		path:  r.URL.Path,
		start: time.Now(),
	}
}

func (l requestLogger) with(e *zerolog.Event) *zerolog.Event {
	e = e.Str("path", l.path)
	if l.rid != "" {
		e = e.Str("request_id", l.rid)
	}
	return e
}

func (l requestLogger) begin(model string) {
	if l.level >= LevelInfo {
		l.with(zlog.Info()).Str("model", model).Msg("query start")
	}
}

// line logs one streamed output line at debug level.
func (l requestLogger) line(s string) {
	if l.level >= LevelDebug {
		l.with(zlog.Debug()).Str("line", s).Msg("query>")
	}
}

// end logs the outcome. Failures are logged from LevelError upward.
func (l requestLogger) end(status int, errMsg string) {
	switch {
	case errMsg != "" && l.level >= LevelError:
		l.with(zlog.Warn()).Int("status", status).Dur("dur", time.Since(l.start)).Str("error", errMsg).Msg("query end")
	case errMsg == "" && l.level >= LevelInfo:
		l.with(zlog.Info()).Int("status", status).Dur("dur", time.Since(l.start)).Msg("query end")
	}
}
