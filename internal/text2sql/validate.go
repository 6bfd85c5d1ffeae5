package text2sql

import (
	"context"

	"go.uber.org/zap"
)

// ExplainRunner is the dry-run slice of the store used for validation.
type ExplainRunner interface {
	ExplainOnly(ctx context.Context, sql string) error
}

// Validator checks generated SQL with an EXPLAIN dry run. Any failure,
// whether syntax or connectivity, yields false; nothing propagates past
// this boundary.
type Validator struct {
	store ExplainRunner
}

// NewValidator creates a Validator over the given store.
func NewValidator(store ExplainRunner) *Validator {
	return &Validator{store: store}
}

// Validate reports whether sql passes the dry-run check.
func (v *Validator) Validate(ctx context.Context, sql string) bool {
	if err := v.store.ExplainOnly(ctx, sql); err != nil {
		zap.S().Warnw("generated SQL failed validation", "error", err)
		return false
	}
	return true
}
