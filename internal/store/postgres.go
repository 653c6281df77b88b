package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
)

// uniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// PostgresStore is a PostgreSQL implementation of the Store interface.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgreSQL-backed store over a pool opened with
// db.OpenPostgres, which has already applied the schema.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Save inserts s.
func (p *PostgresStore) Save(ctx context.Context, s *snapshot.Snapshot) error {
	if err := validate(s); err != nil {
		return err
	}
	blob, err := encodeRuleset(s.Ruleset)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx, `
INSERT INTO snapshots (id, kind, display_name, day, seed, base_id, ruleset, etag, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, string(s.Kind), s.DisplayName, s.Day, seedToSQL(s.Seed), s.BaseID, blob, s.ETag, s.CreatedAt.UTC(),
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, s.ID)
		}
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}
	return nil
}

// Get retrieves a snapshot by id.
func (p *PostgresStore) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	var (
		s         snapshot.Snapshot
		kind      string
		seed      int64
		blob      []byte
		createdAt time.Time
	)
	err := p.pool.QueryRow(ctx, `
SELECT id, kind, display_name, day, seed, base_id, ruleset, etag, created_at
FROM snapshots WHERE id = $1`, id).Scan(
		&s.ID, &kind, &s.DisplayName, &s.Day, &seed, &s.BaseID, &blob, &s.ETag, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}

	rs, err := decodeRuleset(id, blob)
	if err != nil {
		return nil, err
	}
	s.Kind = snapshot.Kind(kind)
	s.Seed = seedFromSQL(seed)
	s.Ruleset = rs
	s.CreatedAt = createdAt.UTC()
	return &s, nil
}

// List returns all summaries ordered by day, then id.
func (p *PostgresStore) List(ctx context.Context) ([]snapshot.Summary, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, kind, display_name, day, etag, created_at
FROM snapshots ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}

	result, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (snapshot.Summary, error) {
		var (
			sum  snapshot.Summary
			kind string
		)
		if err := row.Scan(&sum.ID, &kind, &sum.DisplayName, &sum.Day, &sum.ETag, &sum.CreatedAt); err != nil {
			return snapshot.Summary{}, err
		}
		sum.Kind = snapshot.Kind(kind)
		sum.CreatedAt = sum.CreatedAt.UTC()
		return sum, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return result, nil
}

// Close closes the database connection pool.
func (p *PostgresStore) Close() error {
	p.pool.Close()
	return nil
}
