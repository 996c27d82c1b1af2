package cwater

import (
	"context"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/hupe1980/cwater/structure"
)

// Logger wraps slog.Logger with cwater-specific context.
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
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
}

// WithQuery adds the query structure to the logger.
func (l *Logger) WithQuery(query structure.Key) *Logger {
	return &Logger{
		Logger: l.Logger.With("query", query.String()),
	}
}

// LogLoad logs the loading of one structure file.
func (l *Logger) LogLoad(ctx context.Context, key structure.Key, waters int, err error) {
	if err != nil {
		l.WarnContext(ctx, "structure excluded",
			"structure", key.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "structure loaded",
			"structure", key.String(),
			"waters", waters,
		)
	}
}

// LogFilter logs the refinement outcome of one structure.
func (l *Logger) LogFilter(ctx context.Context, key structure.Key, total, removed int, excluded, degenerate bool) {
	switch {
	case degenerate:
		l.WarnContext(ctx, "degenerate water statistics, refinement skipped",
			"structure", key.String(),
			"waters", total,
		)
	case excluded:
		l.InfoContext(ctx, "structure excluded by refinement",
			"structure", key.String(),
			"waters", total,
			"removed", removed,
		)
	default:
		l.DebugContext(ctx, "structure refined",
			"structure", key.String(),
			"waters", total,
			"removed", removed,
		)
	}
}

// LogCollect logs the merged point set.
func (l *Logger) LogCollect(ctx context.Context, structures, waters int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "collect failed",
			"structures", structures,
			"waters", waters,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "waters collected",
			"structures", structures,
			"waters", waters,
		)
	}
}

// LogClustering logs the hierarchical clustering stage.
func (l *Logger) LogClustering(ctx context.Context, waters, clusters, dropped int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "clustering failed",
			"waters", waters,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "clustering completed",
			"waters", waters,
			"clusters", clusters,
			"duplicates_dropped", dropped,
		)
	}
}

// LogResult logs the outcome of a run.
func (l *Logger) LogResult(ctx context.Context, res *Result) {
	if res.Status == StatusConserved {
		l.InfoContext(ctx, "conserved waters found",
			"structures", len(res.Structures),
			"accepted_clusters", res.Accepted,
			"conserved", len(res.Scores),
		)
		return
	}
	l.InfoContext(ctx, res.Status.Message(res.Query),
		"status", res.Status.String(),
		"structures", len(res.Structures),
	)
}
