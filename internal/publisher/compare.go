package publisher

import (
	"time"

	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
)

// Comparison is a ruleset set against one base ruleset.
type Comparison struct {
	BaseID  string               `json:"base" yaml:"base"`
	Name    string               `json:"name" yaml:"name"`
	Changed int                  `json:"changed" yaml:"changed"`
	Rows    []ruleset.Difference `json:"rows" yaml:"rows"`
}

// CompareWith compares subject with every base ruleset, in base registration order.
func (s *Service) CompareWith(subject ruleset.Ruleset) []Comparison {
	bases := s.bases.All()
	out := make([]Comparison, 0, len(bases))
	for _, base := range bases {
		out = append(out, compareOne(subject, base))
	}
	return out
}

// CompareBase compares subject with the base named baseID.
func (s *Service) CompareBase(subject ruleset.Ruleset, baseID string) (Comparison, error) {
	rs, err := s.bases.Find(baseID)
	if err != nil {
		return Comparison{}, err
	}
	return compareOne(subject, ruleset.Base{ID: baseID, Ruleset: rs}), nil
}

// Comparisons compares the weekly ruleset of the week containing date with every base.
func (s *Service) Comparisons(date time.Time) ([]Comparison, error) {
	snap, err := s.Week(date)
	if err != nil {
		return nil, err
	}
	return s.CompareWith(snap.Ruleset), nil
}

func compareOne(subject ruleset.Ruleset, base ruleset.Base) Comparison {
	rows := ruleset.Compare(subject, base.Ruleset)
	changed := 0
	for _, r := range rows {
		if !r.Same {
			changed++
		}
	}
	return Comparison{
		BaseID:  base.ID,
		Name:    base.Ruleset.Name(),
		Changed: changed,
		Rows:    rows,
	}
}
