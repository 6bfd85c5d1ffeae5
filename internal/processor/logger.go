package processor

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
)

// LogSink is the store slice the query logger writes to.
type LogSink interface {
	InsertQueryLog(ctx context.Context, rec model.QueryLogRecord) (int64, error)
}

// QueryLogger writes one log record per processed request. A write failure is
// noted and swallowed; it never changes the request's outcome.
type QueryLogger struct {
	sink LogSink
}

// NewQueryLogger creates a QueryLogger over the given sink.
func NewQueryLogger(sink LogSink) *QueryLogger {
	return &QueryLogger{sink: sink}
}

// Log persists rec, swallowing any error.
func (l *QueryLogger) Log(ctx context.Context, rec model.QueryLogRecord) {
	if _, err := l.sink.InsertQueryLog(ctx, rec); err != nil {
		zap.S().Warnw("could not log query", "error", err)
	}
}
