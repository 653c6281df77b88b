package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
)

var (
	// ErrNotFound is returned by Get for an unknown id.
	ErrNotFound = errors.New("snapshot not found")
	// ErrAlreadyExists is returned by Save when the id is taken. Stored snapshots are
	// never overwritten.
	ErrAlreadyExists = errors.New("snapshot already exists")
)

// Store defines the interface for snapshot persistence.
// Implementations must be thread-safe and support concurrent access.
type Store interface {
	// Save stores s under s.ID.
	// Returns ErrAlreadyExists if a snapshot with the same id is stored.
	Save(ctx context.Context, s *snapshot.Snapshot) error

	// Get retrieves a snapshot by id.
	// Returns ErrNotFound if there is none.
	Get(ctx context.Context, id string) (*snapshot.Snapshot, error)

	// List returns the summaries of all stored snapshots ordered by day, then id.
	// Returns an empty slice if nothing is stored.
	List(ctx context.Context) ([]snapshot.Summary, error)

	// Close releases any resources held by the store.
	// After Close is called, the store should not be used.
	Close() error
}

func validate(s *snapshot.Snapshot) error {
	if s == nil {
		return errors.New("snapshot is required")
	}
	if s.ID == "" {
		return errors.New("snapshot id is required")
	}
	if len(s.Ruleset.Entries()) == 0 {
		return fmt.Errorf("snapshot %s: ruleset is empty", s.ID)
	}
	return nil
}

func encodeRuleset(rs ruleset.Ruleset) ([]byte, error) {
	blob, err := json.Marshal(rs)
	if err != nil {
		return nil, fmt.Errorf("encode ruleset: %w", err)
	}
	return blob, nil
}

func decodeRuleset(id string, blob []byte) (ruleset.Ruleset, error) {
	var rs ruleset.Ruleset
	if err := json.Unmarshal(blob, &rs); err != nil {
		return ruleset.Ruleset{}, fmt.Errorf("decode ruleset of snapshot %s: %w", id, err)
	}
	return rs, nil
}

// Seeds are uint64 but SQL integers are signed; they are stored as the same 64 bits.
func seedToSQL(seed uint64) int64 { return int64(seed) }

func seedFromSQL(v int64) uint64 { return uint64(v) }
