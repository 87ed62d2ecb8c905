package crossrank

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/crossrank/model"
)

// Logger wraps slog.Logger with crossrank-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithIndex adds an index name field to the logger.
func (l *Logger) WithIndex(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("index", name),
	}
}

// WithQuery adds a query document field to the logger.
func (l *Logger) WithQuery(query model.DocumentKey) *Logger {
	return &Logger{
		Logger: l.Logger.With("query", string(query)),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogLoad logs the loading of one index file.
func (l *Logger) LogLoad(ctx context.Context, file string, records int, bytes int64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index load failed",
			"file", file,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "index loaded",
			"file", file,
			"records", records,
			"bytes", bytes,
			"duration", duration,
		)
	}
}

// LogSelect logs the top-k selection over one index.
// comparisons is the number of distances computed.
func (l *Logger) LogSelect(ctx context.Context, index string, queries int, comparisons int64, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "selection failed",
			"index", index,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "selection completed",
			"index", index,
			"queries", queries,
			"comparisons", comparisons,
			"duration", duration,
		)
	}
}

// LogAggregate logs the aggregation of one query.
func (l *Logger) LogAggregate(ctx context.Context, query model.DocumentKey, candidates int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "aggregation failed",
			"query", string(query),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "aggregation completed",
			"query", string(query),
			"candidates", candidates,
		)
	}
}

// LogRun logs a complete run.
func (l *Logger) LogRun(ctx context.Context, indices, queries, results int, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"indices", indices,
			"queries", queries,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "run completed",
			"indices", indices,
			"queries", queries,
			"results", results,
			"duration", duration,
		)
	}
}
