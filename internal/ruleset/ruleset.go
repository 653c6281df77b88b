// Package ruleset provides immutable, complete technique -> legality assignments and the
// set of hand-curated base rulesets that templates fall back to.
package ruleset

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

// ErrIncomplete is returned when a ruleset would not hold exactly one valid legality
// per catalogue technique.
var ErrIncomplete = errors.New("incomplete ruleset")

// IncompleteError describes why New rejected its input.
type IncompleteError struct {
	Name    string
	Missing []technique.Technique
	Unknown []technique.Technique
	Invalid []technique.Technique
}

// Error implements the error interface.
func (e *IncompleteError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, fmt.Sprintf("missing %v", e.Missing))
	}
	if len(e.Unknown) > 0 {
		parts = append(parts, fmt.Sprintf("unknown %v", e.Unknown))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, fmt.Sprintf("invalid legality for %v", e.Invalid))
	}
	return fmt.Sprintf("ruleset %q: %s", e.Name, strings.Join(parts, "; "))
}

// Is reports whether target is ErrIncomplete.
func (e *IncompleteError) Is(target error) bool {
	return target == ErrIncomplete
}

// Ruleset is a named, complete assignment of a legality to every catalogue technique.
// A Ruleset is immutable: it can only be obtained through New and its accessors return copies.
// The zero Ruleset is empty and is not a valid result of any operation in this module.
type Ruleset struct {
	name   string
	values map[technique.Technique]rules.Legality
}

// Entry is one technique and its legality.
type Entry struct {
	Technique technique.Technique `json:"technique" yaml:"technique"`
	Legality  rules.Legality      `json:"legality" yaml:"legality"`
}

// New validates values against the catalogue and returns a Ruleset.
// Every catalogue technique must be present with a valid legality, and no other key may appear.
func New(name string, values map[technique.Technique]rules.Legality) (Ruleset, error) {
	incomplete := &IncompleteError{Name: name}

	copied := make(map[technique.Technique]rules.Legality, technique.Count())
	for _, t := range technique.All() {
		l, ok := values[t]
		switch {
		case !ok:
			incomplete.Missing = append(incomplete.Missing, t)
		case !l.Valid():
			incomplete.Invalid = append(incomplete.Invalid, t)
		default:
			copied[t] = l
		}
	}
	for t := range values {
		if !t.IsKnown() {
			incomplete.Unknown = append(incomplete.Unknown, t)
		}
	}
	sort.Slice(incomplete.Unknown, func(i, j int) bool { return incomplete.Unknown[i] < incomplete.Unknown[j] })

	if len(incomplete.Missing)+len(incomplete.Unknown)+len(incomplete.Invalid) > 0 {
		return Ruleset{}, incomplete
	}
	return Ruleset{name: name, values: copied}, nil
}

// MustNew is like New but panics on error. It is meant for literals fixed at build time.
func MustNew(name string, values map[technique.Technique]rules.Legality) Ruleset {
	rs, err := New(name, values)
	if err != nil {
		panic(err)
	}
	return rs
}

// Name returns the display name.
func (r Ruleset) Name() string { return r.name }

// Get returns the legality of t. It returns false for techniques outside the catalogue.
func (r Ruleset) Get(t technique.Technique) (rules.Legality, bool) {
	l, ok := r.values[t]
	return l, ok
}

// Entries returns every technique with its legality, in catalogue order.
func (r Ruleset) Entries() []Entry {
	out := make([]Entry, 0, len(r.values))
	for _, t := range technique.All() {
		if l, ok := r.values[t]; ok {
			out = append(out, Entry{Technique: t, Legality: l})
		}
	}
	return out
}

// Values returns a copy of the technique -> legality mapping.
func (r Ruleset) Values() map[technique.Technique]rules.Legality {
	out := make(map[technique.Technique]rules.Legality, len(r.values))
	for t, l := range r.values {
		out[t] = l
	}
	return out
}

// WithName returns a copy of r carrying a different name.
func (r Ruleset) WithName(name string) Ruleset {
	return Ruleset{name: name, values: r.Values()}
}

// Equal reports whether both rulesets have the same name and legalities.
func (r Ruleset) Equal(other Ruleset) bool {
	if r.name != other.name || len(r.values) != len(other.values) {
		return false
	}
	for t, l := range r.values {
		if other.values[t] != l {
			return false
		}
	}
	return true
}

// Count returns how many techniques have legality l.
func (r Ruleset) Count(l rules.Legality) int {
	n := 0
	for _, v := range r.values {
		if v == l {
			n++
		}
	}
	return n
}

// wireRuleset is the serialized form: a flat technique -> legality object plus the name.
type wireRuleset struct {
	Name   string                                 `json:"name" yaml:"name"`
	Values map[technique.Technique]rules.Legality `json:"ruleset" yaml:"ruleset"`
}

// MarshalJSON implements json.Marshaler.
func (r Ruleset) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireRuleset{Name: r.name, Values: r.values})
}

// UnmarshalJSON implements json.Unmarshaler. The decoded value goes through New,
// so a stored ruleset that no longer matches the catalogue is rejected.
func (r *Ruleset) UnmarshalJSON(data []byte) error {
	var w wireRuleset
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	rs, err := New(w.Name, w.Values)
	if err != nil {
		return err
	}
	*r = rs
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r Ruleset) MarshalYAML() (interface{}, error) {
	return wireRuleset{Name: r.name, Values: r.values}, nil
}
