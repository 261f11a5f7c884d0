// Package logging builds the slog loggers used by the onesky CLI.
package logging

import (
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"
)

// Config selects the level, output and format of a CLI logger.
type Config struct {
	Level  string
	Writer io.Writer
	Format string
}

// LogFormat names a handler: text (default) or json.
type LogFormat string

// Supported --log-format values.
const (
	FormatJSON LogFormat = "json"
	FormatText LogFormat = "text"
)

// New creates a structured slog.Logger using the provided configuration.
// Output goes to stderr unless Writer is set.
func New(cfg Config) *slog.Logger {
	writer := cfg.Writer
	if writer == nil {
		writer = os.Stderr
	}
	handler := newHandler(cfg, writer)
	return slog.New(handler)
}

func newHandler(cfg Config, writer io.Writer) slog.Handler {
	options := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	switch LogFormat(strings.ToLower(strings.TrimSpace(cfg.Format))) {
	case FormatJSON:
		return slog.NewJSONHandler(writer, options)
	default:
		return slog.NewTextHandler(writer, options)
	}
}

// parseLevel maps --log-level to a level. Anything unrecognised is warn,
// which keeps per-request debug records off the terminal.
func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l := slog.LevelDebug
		return &l
	case "info":
		l := slog.LevelInfo
		return &l
	case "error":
		l := slog.LevelError
		return &l
	case "warn", "warning", "":
		fallthrough
	default:
		l := slog.LevelWarn
		return &l
	}
}

// WithComponent returns a logger annotated with the provided component field.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With("component", component)
}

// Transport wraps next so that every round trip is logged at debug level
// with method, host, path, status and duration. The query string carries
// credentials and is never logged.
func Transport(logger *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	if logger == nil {
		return next
	}
	return &loggingTransport{logger: logger, next: next}
}

type loggingTransport struct {
	logger *slog.Logger
	next   http.RoundTripper
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	duration := time.Since(start)

	attrs := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"path", req.URL.Path,
		"duration_ms", duration.Milliseconds(),
	}

	if err != nil {
		t.logger.DebugContext(req.Context(), "http round trip failed", append(attrs, "error", err)...)
		return nil, err
	}

	t.logger.DebugContext(req.Context(), "http round trip", append(attrs, "status", resp.StatusCode)...)
	return resp, nil
}
