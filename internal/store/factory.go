package store

import (
	"context"
	"fmt"

	mydb "github.com/TimurManjosov/rulesetweekly/internal/db"
)

// NewStore creates a new store based on the given store type.
// Supported types: "memory", "sqlite", "postgres". For "sqlite" dsn is the database file
// path; for "postgres" it is a connection string.
func NewStore(ctx context.Context, storeType, dsn string) (Store, error) {
	switch storeType {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		s, err := OpenSQLiteStore(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		return s, nil
	case "postgres":
		pool, err := mydb.OpenPostgres(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres store: %w", err)
		}
		return NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeType)
	}
}
