package store

import (
	"context"

	"github.com/sells-group/member-search/internal/model"
)

// LoggedQuery is a search_queries row read back for inspection.
type LoggedQuery struct {
	ID int64 `json:"query_id"`
	model.QueryLogRecord
}

// Store defines the persistence interface for the member search pipeline.
// DistinctValues serves the vocabulary read contract; RunQuery/ExplainOnly
// serve generated-SQL execution and validation; the ingestion methods load
// member data in bulk.
type Store interface {
	// Vocabulary
	DistinctValues(ctx context.Context, category model.Category) ([]string, error)

	// Generated SQL
	ExplainOnly(ctx context.Context, sql string) error
	RunQuery(ctx context.Context, sql string) (columns []string, rows []model.Row, err error)

	// Query log
	InsertQueryLog(ctx context.Context, rec model.QueryLogRecord) (int64, error)
	RecentQueryLogs(ctx context.Context, limit int) ([]LoggedQuery, error)

	// Ingestion
	UpsertMembers(ctx context.Context, members []model.Member) (int64, error)
	InsertExperiences(ctx context.Context, exps []model.Experience) (int64, error)
	InsertEducation(ctx context.Context, edus []model.Education) (int64, error)
	InsertDomains(ctx context.Context, memberID string, domains []string) (int64, error)
	UpsertContent(ctx context.Context, memberID, contentText string) error

	// Health
	MemberCount(ctx context.Context) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// vocabularyQueries maps each category to the DISTINCT query that produces
// its live vocabulary, excluding NULL and empty values.
var vocabularyQueries = map[model.Category]string{
	model.CategoryCompanies:  `SELECT DISTINCT company FROM experiences WHERE company IS NOT NULL AND company <> ''`,
	model.CategoryRoles:      `SELECT DISTINCT role FROM experiences WHERE role IS NOT NULL AND role <> ''`,
	model.CategoryCities:     `SELECT DISTINCT city FROM experiences WHERE city IS NOT NULL AND city <> ''`,
	model.CategoryStates:     `SELECT DISTINCT state FROM experiences WHERE state IS NOT NULL AND state <> ''`,
	model.CategoryCountries:  `SELECT DISTINCT country FROM experiences WHERE country IS NOT NULL AND country <> ''`,
	model.CategoryInstitutes: `SELECT DISTINCT institute FROM education WHERE institute IS NOT NULL AND institute <> ''`,
	model.CategoryDegrees:    `SELECT DISTINCT degree FROM education WHERE degree IS NOT NULL AND degree <> ''`,
	model.CategoryDomains:    `SELECT DISTINCT domain_name FROM domains WHERE domain_name IS NOT NULL AND domain_name <> ''`,
}
