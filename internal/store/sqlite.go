package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	mydb "github.com/TimurManjosov/rulesetweekly/internal/db"
	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
)

// SQLiteStore persists snapshots in a single SQLite file. It is the default store.
type SQLiteStore struct {
	sqlDB *sql.DB
}

// OpenSQLiteStore opens (creating if needed) the database at path and migrates it.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	sqlDB, err := mydb.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return &SQLiteStore{sqlDB: sqlDB}, nil
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Save inserts s. An existing row with the same id is left untouched.
func (s *SQLiteStore) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(snap); err != nil {
		return err
	}
	blob, err := encodeRuleset(snap.Ruleset)
	if err != nil {
		return err
	}

	_, err = s.sqlDB.ExecContext(ctx, `
INSERT INTO snapshots (id, kind, display_name, day, seed, base_id, ruleset, etag, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snap.ID,
		string(snap.Kind),
		snap.DisplayName,
		snap.Day,
		seedToSQL(snap.Seed),
		snap.BaseID,
		string(blob),
		snap.ETag,
		toMillis(snap.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, snap.ID)
		}
		return fmt.Errorf("insert snapshot %s: %w", snap.ID, err)
	}
	return nil
}

// Get loads one snapshot.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var (
		snap      snapshot.Snapshot
		kind      string
		seed      int64
		blob      string
		createdAt int64
	)
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT id, kind, display_name, day, seed, base_id, ruleset, etag, created_at
FROM snapshots WHERE id = ?`, id).Scan(
		&snap.ID, &kind, &snap.DisplayName, &snap.Day, &seed, &snap.BaseID, &blob, &snap.ETag, &createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}

	rs, err := decodeRuleset(id, []byte(blob))
	if err != nil {
		return nil, err
	}
	snap.Kind = snapshot.Kind(kind)
	snap.Seed = seedFromSQL(seed)
	snap.Ruleset = rs
	snap.CreatedAt = fromMillis(createdAt)
	return &snap, nil
}

// List returns all summaries ordered by day, then id.
func (s *SQLiteStore) List(ctx context.Context) ([]snapshot.Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT id, kind, display_name, day, etag, created_at
FROM snapshots ORDER BY day, id`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	result := make([]snapshot.Summary, 0)
	for rows.Next() {
		var (
			sum       snapshot.Summary
			kind      string
			createdAt int64
		)
		if err := rows.Scan(&sum.ID, &kind, &sum.DisplayName, &sum.Day, &sum.ETag, &createdAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		sum.Kind = snapshot.Kind(kind)
		sum.CreatedAt = fromMillis(createdAt)
		result = append(result, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return result, nil
}

// Close closes the SQLite handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
