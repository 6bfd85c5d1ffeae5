package store

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/member-search/internal/db"
	"github.com/sells-group/member-search/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool db.Pool
}

// PoolConfig holds connection pool sizing.
type PoolConfig struct {
	MinConns int32
	MaxConns int32
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Reference sizing: min 1, max 20 checked-out connections.
	minConns := int32(1)
	maxConns := int32(20)
	if poolCfg != nil {
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
	}
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConns = maxConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Every request re-reads live vocabulary, so the distinct-value queries
	// are prepared on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for cat, sql := range vocabularyQueries {
			if _, err := conn.Prepare(ctx, "vocab_"+string(cat), sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare vocab_%s", cat)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool}, nil
}

// NewPostgresFromPool wraps an existing pool (used by tests with pgxmock).
func NewPostgresFromPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that need direct
// access (bulk ingestion).
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS members (
	member_id  TEXT PRIMARY KEY,
	uri        TEXT UNIQUE NOT NULL,
	first_name TEXT NOT NULL,
	last_name  TEXT NOT NULL,
	bio        TEXT,
	title      TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS experiences (
	experience_id    SERIAL PRIMARY KEY,
	member_id        TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	company          TEXT NOT NULL,
	role             TEXT,
	industry         TEXT,
	city             TEXT,
	state            TEXT,
	country          TEXT,
	from_date        DATE,
	to_date          DATE,
	is_current       BOOLEAN DEFAULT FALSE,
	description      TEXT,
	company_size     TEXT,
	company_website  TEXT,
	company_linkedin TEXT
);

CREATE TABLE IF NOT EXISTS education (
	education_id SERIAL PRIMARY KEY,
	member_id    TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	degree       TEXT,
	institute    TEXT NOT NULL,
	course       TEXT,
	from_date    DATE,
	to_date      DATE
);

CREATE TABLE IF NOT EXISTS domains (
	domain_id   SERIAL PRIMARY KEY,
	member_id   TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	domain_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS content (
	content_id   SERIAL PRIMARY KEY,
	member_id    TEXT NOT NULL UNIQUE REFERENCES members(member_id) ON DELETE CASCADE,
	content_text TEXT
);

CREATE TABLE IF NOT EXISTS search_queries (
	query_id          SERIAL PRIMARY KEY,
	original_query    TEXT NOT NULL,
	generated_sql     TEXT,
	results_count     INTEGER,
	execution_time_ms INTEGER,
	error_message     TEXT,
	timestamp         TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	ip_address        TEXT,
	user_agent        TEXT
);

CREATE TABLE IF NOT EXISTS query_results (
	result_id       SERIAL PRIMARY KEY,
	query_id        INTEGER NOT NULL REFERENCES search_queries(query_id) ON DELETE CASCADE,
	member_id       TEXT NOT NULL REFERENCES members(member_id),
	relevance_score REAL
);

CREATE INDEX IF NOT EXISTS idx_members_first_name ON members(first_name);
CREATE INDEX IF NOT EXISTS idx_members_last_name ON members(last_name);
CREATE INDEX IF NOT EXISTS idx_exp_member_id ON experiences(member_id);
CREATE INDEX IF NOT EXISTS idx_exp_company ON experiences(company);
CREATE INDEX IF NOT EXISTS idx_exp_city ON experiences(city);
CREATE INDEX IF NOT EXISTS idx_exp_state ON experiences(state);
CREATE INDEX IF NOT EXISTS idx_exp_country ON experiences(country);
CREATE INDEX IF NOT EXISTS idx_exp_role ON experiences(role);
CREATE INDEX IF NOT EXISTS idx_exp_industry ON experiences(industry);
CREATE INDEX IF NOT EXISTS idx_exp_is_current ON experiences(is_current);
CREATE INDEX IF NOT EXISTS idx_edu_member_id ON education(member_id);
CREATE INDEX IF NOT EXISTS idx_edu_institute ON education(institute);
CREATE INDEX IF NOT EXISTS idx_edu_degree ON education(degree);
CREATE INDEX IF NOT EXISTS idx_dom_member_id ON domains(member_id);
CREATE INDEX IF NOT EXISTS idx_dom_name ON domains(domain_name);
CREATE INDEX IF NOT EXISTS idx_content_member_id ON content(member_id);
CREATE INDEX IF NOT EXISTS idx_sq_timestamp ON search_queries(timestamp);
CREATE INDEX IF NOT EXISTS idx_qr_query_id ON query_results(query_id);
CREATE INDEX IF NOT EXISTS idx_qr_member_id ON query_results(member_id);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresMigration); err != nil {
		return eris.Wrap(err, "postgres: migrate")
	}
	return nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) DistinctValues(ctx context.Context, category model.Category) ([]string, error) {
	sql, ok := vocabularyQueries[category]
	if !ok {
		return nil, eris.Errorf("postgres: unknown vocabulary category %q", category)
	}

	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: distinct %s", category)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", category)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "postgres: iterate %s", category)
	}
	return values, nil
}

func (s *PostgresStore) ExplainOnly(ctx context.Context, sql string) error {
	if _, err := s.pool.Exec(ctx, "EXPLAIN "+sql); err != nil {
		return eris.Wrap(err, "postgres: explain")
	}
	return nil
}

func (s *PostgresStore) RunQuery(ctx context.Context, sql string) ([]string, []model.Row, error) {
	rows, err := s.pool.Query(ctx, sql)
	if err != nil {
		return nil, nil, eris.Wrap(err, "postgres: run query")
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	columns := make([]string, len(fields))
	for i, f := range fields {
		columns[i] = f.Name
	}

	var out []model.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, nil, eris.Wrap(err, "postgres: read row")
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "postgres: iterate rows")
	}
	return columns, out, nil
}

func (s *PostgresStore) InsertQueryLog(ctx context.Context, rec model.QueryLogRecord) (int64, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: log: begin tx")
	}
	defer tx.Rollback(ctx)

	var queryID int64
	err = tx.QueryRow(ctx,
		`INSERT INTO search_queries (original_query, generated_sql, results_count, execution_time_ms, error_message, timestamp)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING query_id`,
		rec.OriginalQuery, rec.GeneratedSQL, rec.ResultsCount, rec.ExecutionTimeMs, rec.ErrorMessage, rec.Timestamp,
	).Scan(&queryID)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: insert search_queries")
	}

	for _, memberID := range rec.MemberIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO query_results (query_id, member_id) VALUES ($1, $2)`,
			queryID, memberID,
		); err != nil {
			return 0, eris.Wrap(err, "postgres: insert query_results")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, eris.Wrap(err, "postgres: log: commit tx")
	}
	return queryID, nil
}

func (s *PostgresStore) RecentQueryLogs(ctx context.Context, limit int) ([]LoggedQuery, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT query_id, original_query, generated_sql, results_count, execution_time_ms, error_message, timestamp
		 FROM search_queries ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: recent query logs")
	}
	defer rows.Close()

	var out []LoggedQuery
	for rows.Next() {
		var lq LoggedQuery
		if err := rows.Scan(&lq.ID, &lq.OriginalQuery, &lq.GeneratedSQL, &lq.ResultsCount,
			&lq.ExecutionTimeMs, &lq.ErrorMessage, &lq.Timestamp); err != nil {
			return nil, eris.Wrap(err, "postgres: scan query log")
		}
		out = append(out, lq)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: iterate query logs")
	}
	return out, nil
}

var memberColumns = []string{"member_id", "uri", "first_name", "last_name", "bio", "title"}

func (s *PostgresStore) UpsertMembers(ctx context.Context, members []model.Member) (int64, error) {
	rows := make([][]any, len(members))
	for i, m := range members {
		rows[i] = []any{m.MemberID, m.URI, m.FirstName, m.LastName, m.Bio, m.Title}
	}
	return db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "members",
		Columns:      memberColumns,
		ConflictKeys: []string{"member_id"},
	}, rows)
}

var experienceColumns = []string{
	"member_id", "company", "role", "industry", "city", "state", "country",
	"from_date", "to_date", "is_current", "description", "company_size",
	"company_website", "company_linkedin",
}

func (s *PostgresStore) InsertExperiences(ctx context.Context, exps []model.Experience) (int64, error) {
	rows := make([][]any, len(exps))
	for i, e := range exps {
		rows[i] = []any{
			e.MemberID, e.Company, e.Role, e.Industry, e.City, e.State, e.Country,
			e.FromDate, e.ToDate, e.IsCurrent, e.Description, e.CompanySize,
			e.CompanyWebsite, e.CompanyLinkedIn,
		}
	}
	return db.CopyFrom(ctx, s.pool, "experiences", experienceColumns, rows)
}

var educationColumns = []string{"member_id", "degree", "institute", "course", "from_date", "to_date"}

func (s *PostgresStore) InsertEducation(ctx context.Context, edus []model.Education) (int64, error) {
	rows := make([][]any, len(edus))
	for i, e := range edus {
		rows[i] = []any{e.MemberID, e.Degree, e.Institute, e.Course, e.FromDate, e.ToDate}
	}
	return db.CopyFrom(ctx, s.pool, "education", educationColumns, rows)
}

func (s *PostgresStore) InsertDomains(ctx context.Context, memberID string, domains []string) (int64, error) {
	rows := make([][]any, len(domains))
	for i, d := range domains {
		rows[i] = []any{memberID, d}
	}
	return db.CopyFrom(ctx, s.pool, "domains", []string{"member_id", "domain_name"}, rows)
}

func (s *PostgresStore) UpsertContent(ctx context.Context, memberID, contentText string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO content (member_id, content_text) VALUES ($1, $2)
		 ON CONFLICT (member_id) DO UPDATE SET content_text = EXCLUDED.content_text`,
		memberID, contentText,
	)
	if err != nil {
		return eris.Wrap(err, "postgres: upsert content")
	}
	return nil
}

func (s *PostgresStore) MemberCount(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "postgres: member count")
	}
	return n, nil
}
