package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/member-search/internal/model"
)

// SQLiteStore implements Store on an embedded SQLite database. It exists for
// local development and single-node deployments where running Postgres is
// overkill; the pipeline is otherwise identical.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) a SQLite database at path.
func NewSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}

	// WAL keeps readers from blocking the ingestion writer.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := dbh.ExecContext(ctx, p); err != nil {
			dbh.Close()
			return nil, eris.Wrapf(err, "sqlite: %s", p)
		}
	}

	if err := dbh.PingContext(ctx); err != nil {
		dbh.Close()
		return nil, eris.Wrap(err, "sqlite: ping")
	}
	return &SQLiteStore{db: dbh}, nil
}

const sqliteMigration = `
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
	experience_id    INTEGER PRIMARY KEY AUTOINCREMENT,
	member_id        TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	company          TEXT NOT NULL,
	role             TEXT,
	industry         TEXT,
	city             TEXT,
	state            TEXT,
	country          TEXT,
	from_date        TEXT,
	to_date          TEXT,
	is_current       INTEGER DEFAULT 0,
	description      TEXT,
	company_size     TEXT,
	company_website  TEXT,
	company_linkedin TEXT
);

CREATE TABLE IF NOT EXISTS education (
	education_id INTEGER PRIMARY KEY AUTOINCREMENT,
	member_id    TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	degree       TEXT,
	institute    TEXT NOT NULL,
	course       TEXT,
	from_date    TEXT,
	to_date      TEXT
);

CREATE TABLE IF NOT EXISTS domains (
	domain_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	member_id   TEXT NOT NULL REFERENCES members(member_id) ON DELETE CASCADE,
	domain_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS content (
	content_id   INTEGER PRIMARY KEY AUTOINCREMENT,
	member_id    TEXT NOT NULL UNIQUE REFERENCES members(member_id) ON DELETE CASCADE,
	content_text TEXT
);

CREATE TABLE IF NOT EXISTS search_queries (
	query_id          INTEGER PRIMARY KEY AUTOINCREMENT,
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
	result_id       INTEGER PRIMARY KEY AUTOINCREMENT,
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

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sqliteMigration); err != nil {
		return eris.Wrap(err, "sqlite: migrate")
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) DistinctValues(ctx context.Context, category model.Category) ([]string, error) {
	q, ok := vocabularyQueries[category]
	if !ok {
		return nil, eris.Errorf("sqlite: unknown vocabulary category %q", category)
	}

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: distinct %s", category)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", category)
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrapf(err, "sqlite: iterate %s", category)
	}
	return values, nil
}

func (s *SQLiteStore) ExplainOnly(ctx context.Context, sqlText string) error {
	rows, err := s.db.QueryContext(ctx, "EXPLAIN "+sqlText)
	if err != nil {
		return eris.Wrap(err, "sqlite: explain")
	}
	return rows.Close()
}

func (s *SQLiteStore) RunQuery(ctx context.Context, sqlText string) ([]string, []model.Row, error) {
	rows, err := s.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: run query")
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: read columns")
	}

	var out []model.Row
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, eris.Wrap(err, "sqlite: scan row")
		}
		row := make(model.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "sqlite: iterate rows")
	}
	return columns, out, nil
}

func (s *SQLiteStore) InsertQueryLog(ctx context.Context, rec model.QueryLogRecord) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: log: begin tx")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO search_queries (original_query, generated_sql, results_count, execution_time_ms, error_message, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.OriginalQuery, rec.GeneratedSQL, rec.ResultsCount, rec.ExecutionTimeMs, rec.ErrorMessage, rec.Timestamp,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: insert search_queries")
	}
	queryID, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: log id")
	}

	for _, memberID := range rec.MemberIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO query_results (query_id, member_id) VALUES (?, ?)`,
			queryID, memberID,
		); err != nil {
			return 0, eris.Wrap(err, "sqlite: insert query_results")
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: log: commit tx")
	}
	return queryID, nil
}

func (s *SQLiteStore) RecentQueryLogs(ctx context.Context, limit int) ([]LoggedQuery, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT query_id, original_query, generated_sql, results_count, execution_time_ms, error_message, timestamp
		 FROM search_queries ORDER BY timestamp DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: recent query logs")
	}
	defer rows.Close()

	var out []LoggedQuery
	for rows.Next() {
		var lq LoggedQuery
		if err := rows.Scan(&lq.ID, &lq.OriginalQuery, &lq.GeneratedSQL, &lq.ResultsCount,
			&lq.ExecutionTimeMs, &lq.ErrorMessage, &lq.Timestamp); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan query log")
		}
		out = append(out, lq)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate query logs")
	}
	return out, nil
}

func (s *SQLiteStore) UpsertMembers(ctx context.Context, members []model.Member) (int64, error) {
	if len(members) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert members: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO members (member_id, uri, first_name, last_name, bio, title)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (member_id) DO UPDATE SET
		   uri = excluded.uri, first_name = excluded.first_name,
		   last_name = excluded.last_name, bio = excluded.bio, title = excluded.title`)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert members: prepare")
	}
	defer stmt.Close()

	var n int64
	for _, m := range members {
		if _, err := stmt.ExecContext(ctx, m.MemberID, m.URI, m.FirstName, m.LastName, m.Bio, m.Title); err != nil {
			return 0, eris.Wrapf(err, "sqlite: upsert member %s", m.MemberID)
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: upsert members: commit tx")
	}
	return n, nil
}

// insertBatch inserts rows one statement at a time inside a single tx. SQLite
// has no COPY protocol, so this is the bulk path.
func (s *SQLiteStore) insertBatch(ctx context.Context, insertSQL string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: batch: begin tx")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: batch: prepare")
	}
	defer stmt.Close()

	var n int64
	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, eris.Wrap(err, "sqlite: batch: exec")
		}
		n++
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: batch: commit tx")
	}
	return n, nil
}

func (s *SQLiteStore) InsertExperiences(ctx context.Context, exps []model.Experience) (int64, error) {
	rows := make([][]any, len(exps))
	for i, e := range exps {
		rows[i] = []any{
			e.MemberID, e.Company, e.Role, e.Industry, e.City, e.State, e.Country,
			e.FromDate, e.ToDate, e.IsCurrent, e.Description, e.CompanySize,
			e.CompanyWebsite, e.CompanyLinkedIn,
		}
	}
	return s.insertBatch(ctx,
		`INSERT INTO experiences (member_id, company, role, industry, city, state, country,
		   from_date, to_date, is_current, description, company_size, company_website, company_linkedin)
		 VALUES (`+placeholders(14)+`)`, rows)
}

func (s *SQLiteStore) InsertEducation(ctx context.Context, edus []model.Education) (int64, error) {
	rows := make([][]any, len(edus))
	for i, e := range edus {
		rows[i] = []any{e.MemberID, e.Degree, e.Institute, e.Course, e.FromDate, e.ToDate}
	}
	return s.insertBatch(ctx,
		`INSERT INTO education (member_id, degree, institute, course, from_date, to_date)
		 VALUES (`+placeholders(6)+`)`, rows)
}

func (s *SQLiteStore) InsertDomains(ctx context.Context, memberID string, domains []string) (int64, error) {
	rows := make([][]any, len(domains))
	for i, d := range domains {
		rows[i] = []any{memberID, d}
	}
	return s.insertBatch(ctx,
		`INSERT INTO domains (member_id, domain_name) VALUES (?, ?)`, rows)
}

func (s *SQLiteStore) UpsertContent(ctx context.Context, memberID, contentText string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO content (member_id, content_text) VALUES (?, ?)
		 ON CONFLICT (member_id) DO UPDATE SET content_text = excluded.content_text`,
		memberID, contentText,
	)
	if err != nil {
		return eris.Wrap(err, "sqlite: upsert content")
	}
	return nil
}

func (s *SQLiteStore) MemberCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM members`).Scan(&n); err != nil {
		return 0, eris.Wrap(err, "sqlite: member count")
	}
	return n, nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
