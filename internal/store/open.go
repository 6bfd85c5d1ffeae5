package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/member-search/internal/config"
)

// Open creates the Store selected by cfg.Driver ("postgres" or "sqlite").
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{
			MinConns: cfg.MinConns,
			MaxConns: cfg.MaxConns,
		})
	case "sqlite":
		return NewSQLite(ctx, cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q (want postgres or sqlite)", cfg.Driver)
	}
}

// Dialect returns the SQL dialect name fed into prompt construction for the
// given driver. Unknown drivers fall back to PostgreSQL, the primary backend.
func Dialect(driver string) string {
	if driver == "sqlite" {
		return "SQLite"
	}
	return "PostgreSQL"
}
