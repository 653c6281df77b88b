// Package snapshot holds the stored form of a resolved ruleset and the in-process
// holder of the current weekly.
package snapshot

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/weekly"
)

// Kind tells how a snapshot was produced.
type Kind string

const (
	KindWeekly Kind = "weekly"
	KindCustom Kind = "custom"
)

// Snapshot is a resolved ruleset plus everything needed to reproduce it.
type Snapshot struct {
	ID          string          `json:"id" yaml:"id"`
	Kind        Kind            `json:"kind" yaml:"kind"`
	DisplayName string          `json:"displayName" yaml:"displayName"`
	Day         int64           `json:"day" yaml:"day"`
	Seed        uint64          `json:"seed" yaml:"seed"`
	BaseID      string          `json:"base" yaml:"base"`
	Ruleset     ruleset.Ruleset `json:"ruleset" yaml:"ruleset"`
	ETag        string          `json:"etag" yaml:"etag"`
	CreatedAt   time.Time       `json:"createdAt" yaml:"createdAt"`
}

// Summary is the listing form of a snapshot.
type Summary struct {
	ID          string    `json:"id" yaml:"id"`
	Kind        Kind      `json:"kind" yaml:"kind"`
	DisplayName string    `json:"displayName" yaml:"displayName"`
	Day         int64     `json:"day" yaml:"day"`
	ETag        string    `json:"etag" yaml:"etag"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// WeeklyID returns the id a weekly snapshot is stored under: its boundary day number.
func WeeklyID(day int64) string {
	return strconv.FormatInt(day, 10)
}

// NewWeekly builds the snapshot of a resolved week.
func NewWeekly(w weekly.Week, baseID string, createdAt time.Time) *Snapshot {
	return &Snapshot{
		ID:          WeeklyID(w.Day),
		Kind:        KindWeekly,
		DisplayName: weekly.DisplayName(w.Boundary),
		Day:         w.Day,
		Seed:        w.Seed,
		BaseID:      baseID,
		Ruleset:     w.Ruleset,
		ETag:        ETag(w.Ruleset),
		CreatedAt:   createdAt.UTC(),
	}
}

// NewCustom builds the snapshot of a ruleset resolved from a user document.
func NewCustom(id string, rs ruleset.Ruleset, baseID string, seed uint64, createdAt time.Time) *Snapshot {
	return &Snapshot{
		ID:          id,
		Kind:        KindCustom,
		DisplayName: rs.Name(),
		Day:         weekly.DayNumber(createdAt.UTC()),
		Seed:        seed,
		BaseID:      baseID,
		Ruleset:     rs,
		ETag:        ETag(rs),
		CreatedAt:   createdAt.UTC(),
	}
}

// Summary returns the listing form of s.
func (s *Snapshot) Summary() Summary {
	return Summary{
		ID:          s.ID,
		Kind:        s.Kind,
		DisplayName: s.DisplayName,
		Day:         s.Day,
		ETag:        s.ETag,
		CreatedAt:   s.CreatedAt,
	}
}

// Less orders summaries by day, then id.
func Less(a, b Summary) bool {
	if a.Day != b.Day {
		return a.Day < b.Day
	}
	return a.ID < b.ID
}

// ETag fingerprints the name and legalities of rs. Two rulesets with the same content
// always share an ETag, whatever map order they were built in.
func ETag(rs ruleset.Ruleset) string {
	blob, _ := json.Marshal(struct {
		Name    string          `json:"name"`
		Entries []ruleset.Entry `json:"entries"`
	}{rs.Name(), rs.Entries()})
	return fmt.Sprintf(`W/"%016x"`, xxhash.Sum64(blob))
}
