package model

import "time"

// Fixed failure messages returned by the query processor. The HTTP layer and
// the query log both depend on these exact strings.
const (
	ErrMsgGeneration = "Failed to generate SQL query"
	ErrMsgValidation = "Generated SQL is invalid"
	ErrMsgExecution  = "SQL execution failed"
)

// QueryResponse is the uniform result of processing one query. Every field is
// populated on both success and failure paths; unset fields carry their zero
// defaults (empty maps/slices, 0, nil) rather than being omitted.
type QueryResponse struct {
	Success            bool               `json:"success"`
	OriginalQuery      string             `json:"original_query"`
	ExtractedEntities  ExtractedEntities  `json:"extracted_entities"`
	NormalizedEntities NormalizedEntities `json:"normalized_entities"`
	GeneratedSQL       *string            `json:"generated_sql"`
	Results            []Row              `json:"results"`
	ResultsCount       int                `json:"results_count"`
	ExecutionTimeMs    int64              `json:"execution_time_ms"`
	TotalTimeMs        int64              `json:"total_time_ms"`
	ErrorMessage       *string            `json:"error_message"`
}

// Row is a single result row, keyed by column name. Column order is carried
// alongside rows by the executor since Go maps do not preserve it.
type Row map[string]any

// QueryLogRecord is the once-per-request log entry written to search_queries,
// with optional member linkage rows for successful results.
type QueryLogRecord struct {
	OriginalQuery   string
	GeneratedSQL    *string
	ResultsCount    int
	ExecutionTimeMs int64
	ErrorMessage    *string
	Timestamp       time.Time
	MemberIDs       []string
}
