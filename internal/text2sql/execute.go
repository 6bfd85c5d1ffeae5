package text2sql

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
)

// QueryRunner is the execution slice of the store.
type QueryRunner interface {
	RunQuery(ctx context.Context, sql string) (columns []string, rows []model.Row, err error)
}

// ExecResult carries execution output. Rows is nil on failure; ElapsedMs is
// measured wall-clock up to success or the failure point either way.
type ExecResult struct {
	Columns   []string
	Rows      []model.Row
	ElapsedMs int64
	OK        bool
}

// Executor runs validated SQL against the store. Errors never propagate;
// failure is signaled through ExecResult.OK.
type Executor struct {
	store QueryRunner
}

// NewExecutor creates an Executor over the given store.
func NewExecutor(store QueryRunner) *Executor {
	return &Executor{store: store}
}

// Execute runs sql and shapes the result set into column-keyed rows.
func (e *Executor) Execute(ctx context.Context, sql string) ExecResult {
	start := time.Now()
	columns, rows, err := e.store.RunQuery(ctx, sql)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		zap.S().Warnw("SQL execution failed", "error", err, "elapsed_ms", elapsed)
		return ExecResult{ElapsedMs: elapsed}
	}
	if rows == nil {
		rows = []model.Row{}
	}
	return ExecResult{Columns: columns, Rows: rows, ElapsedMs: elapsed, OK: true}
}
