// Package logging configures the slog logger shared by the structfile
// packages and defines the events they log. Logs go to stderr by default so
// that record output on stdout stays clean.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Level is a log level.
type Level slog.Level

const (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

func (l Level) String() string {
	return strings.ToLower(slog.Level(l).String())
}

// ParseLevel converts a level name (debug, info, warn, error) to a Level.
func ParseLevel(name string) (Level, error) {
	for _, l := range []Level{LevelDebug, LevelInfo, LevelWarn, LevelError} {
		if strings.EqualFold(name, l.String()) {
			return l, nil
		}
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

// Format is a log output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseFormat converts a format name (text, json) to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(name) {
	case "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", name)
}

type contextKey struct{}

var batchIDKey contextKey

var logger *slog.Logger

func init() {
	InitLogger(LevelWarn, FormatText)
}

// InitLogger replaces the package logger with one writing to stderr.
func InitLogger(level Level, format Format) {
	InitLoggerTo(os.Stderr, level, format)
}

// InitLoggerTo replaces the package logger with one writing to w.
// Timestamps are written in RFC 3339 at second precision.
func InitLoggerTo(w io.Writer, level Level, format Format) {
	opts := &slog.HandlerOptions{
		Level: slog.Level(level),
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && a.Value.Kind() == slog.KindTime {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if format == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	}
	logger = slog.New(h)
}

// Logger returns the package logger, carrying the batch id of ctx if any.
func Logger(ctx context.Context) *slog.Logger {
	if id := BatchID(ctx); id != "" {
		return logger.With("batch_id", id)
	}
	return logger
}

// WithBatchID tags ctx with an index batch id.
func WithBatchID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, batchIDKey, id)
}

// BatchID returns the index batch id of ctx, or "".
func BatchID(ctx context.Context) string {
	id, _ := ctx.Value(batchIDKey).(string)
	return id
}

// FormatSelected logs the format picked for an input.
func FormatSelected(path, format string, candidates int) {
	logger.Debug("format_selected", "path", path, "format", format, "candidates", candidates)
}

// FormatRejected logs a candidate format that failed to read the head of
// an input.
func FormatRejected(path, format string, err error) {
	logger.Debug("format_rejected", "path", path, "format", format, "error", err.Error())
}

// RecordRead logs one record read from an input.
func RecordRead(format string, index int, id string, length int) {
	logger.Debug("record_read", "format", format, "index", index, "id", id, "length", length)
}

// ReadFailed logs a read error. Extra key-value pairs are appended.
func ReadFailed(path, format string, err error, args ...any) {
	logger.Error("read_failed", append([]any{"path", path, "format", format, "error", err.Error()}, args...)...)
}

// IndexBatch logs a completed index batch.
func IndexBatch(ctx context.Context, files, records int, d time.Duration, args ...any) {
	Logger(ctx).Info("index_batch",
		append([]any{"files", files, "records", records, "duration_ms", d.Milliseconds()}, args...)...)
}
