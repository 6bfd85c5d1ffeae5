// Package processor orchestrates the query pipeline: normalize, synthesize,
// validate, execute, log. Each request runs strictly sequentially; the only
// state shared between concurrent requests is the store's connection pool.
package processor

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/member-search/internal/model"
	"github.com/sells-group/member-search/internal/normalize"
	"github.com/sells-group/member-search/internal/text2sql"
)

// Processor runs the end-to-end pipeline for one raw query at a time.
type Processor struct {
	normalizer  *normalize.QueryNormalizer
	synthesizer *text2sql.Synthesizer
	validator   *text2sql.Validator
	executor    *text2sql.Executor
	logger      *QueryLogger
}

// New wires a Processor from its stage components.
func New(
	normalizer *normalize.QueryNormalizer,
	synthesizer *text2sql.Synthesizer,
	validator *text2sql.Validator,
	executor *text2sql.Executor,
	logger *QueryLogger,
) *Processor {
	return &Processor{
		normalizer:  normalizer,
		synthesizer: synthesizer,
		validator:   validator,
		executor:    executor,
		logger:      logger,
	}
}

// Process runs the full pipeline for query. It always returns a response of
// the same shape; failures surface through Success=false and one of the three
// fixed error messages, never through an error return.
func (p *Processor) Process(ctx context.Context, query string) model.QueryResponse {
	start := time.Now()
	requestID := uuid.NewString()
	log := zap.S().With("request_id", requestID)
	log.Infow("processing query", "query", query)

	// Normalization never aborts the pipeline; no entities is a valid outcome.
	norm := p.normalizer.NormalizeQuery(ctx, query)
	log.Debugw("entities normalized", "hints", norm.Hints)

	sql, attempts, err := p.synthesizer.Synthesize(ctx, query, norm.Normalized)
	if err != nil {
		log.Warnw("SQL generation failed", "attempts", attempts, "error", err)
		p.logger.Log(ctx, logRecord(query, nil, 0, 0, model.ErrMsgGeneration, nil))
		return failedResponse(query, model.ErrMsgGeneration)
	}
	log.Debugw("SQL generated", "attempts", attempts, "sql", sql)

	if !p.validator.Validate(ctx, sql) {
		log.Warnw("generated SQL rejected by validation", "sql", sql)
		p.logger.Log(ctx, logRecord(query, &sql, 0, 0, model.ErrMsgValidation, nil))
		return failedResponse(query, model.ErrMsgValidation)
	}

	res := p.executor.Execute(ctx, sql)
	if !res.OK {
		log.Warnw("SQL execution failed", "sql", sql, "elapsed_ms", res.ElapsedMs)
		p.logger.Log(ctx, logRecord(query, &sql, 0, res.ElapsedMs, model.ErrMsgExecution, nil))
		return failedResponse(query, model.ErrMsgExecution)
	}

	p.logger.Log(ctx, logRecord(query, &sql, len(res.Rows), res.ElapsedMs, "", memberIDs(res.Rows)))

	totalMs := time.Since(start).Milliseconds()
	log.Infow("query processed", "rows", len(res.Rows), "execution_ms", res.ElapsedMs, "total_ms", totalMs)

	return model.QueryResponse{
		Success:            true,
		OriginalQuery:      query,
		ExtractedEntities:  norm.Extracted,
		NormalizedEntities: norm.Normalized,
		GeneratedSQL:       &sql,
		Results:            res.Rows,
		ResultsCount:       len(res.Rows),
		ExecutionTimeMs:    res.ElapsedMs,
		TotalTimeMs:        totalMs,
		ErrorMessage:       nil,
	}
}

// failedResponse builds the uniform failure shape: all result fields at their
// defaults, with only the query text and error message carried through.
func failedResponse(query, errMsg string) model.QueryResponse {
	return model.QueryResponse{
		Success:       false,
		OriginalQuery: query,
		Results:       []model.Row{},
		ErrorMessage:  &errMsg,
	}
}

func logRecord(query string, sql *string, count int, elapsedMs int64, errMsg string, members []string) model.QueryLogRecord {
	rec := model.QueryLogRecord{
		OriginalQuery:   query,
		GeneratedSQL:    sql,
		ResultsCount:    count,
		ExecutionTimeMs: elapsedMs,
		Timestamp:       time.Now(),
		MemberIDs:       members,
	}
	if errMsg != "" {
		rec.ErrorMessage = &errMsg
	}
	return rec
}

// memberIDs pulls member_id values out of result rows for the query log's
// result linkage. Rows without a string member_id column are skipped.
func memberIDs(rows []model.Row) []string {
	var ids []string
	for _, row := range rows {
		if id, ok := row["member_id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
