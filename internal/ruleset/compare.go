package ruleset

import (
	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

// Difference is one row of a side-by-side comparison.
type Difference struct {
	Technique  technique.Technique `json:"technique" yaml:"technique"`
	Subject    rules.Legality      `json:"subject" yaml:"subject"`
	Comparison rules.Legality      `json:"comparison" yaml:"comparison"`
	Same       bool                `json:"same" yaml:"same"`
}

// Compare lines subject up against comparison, one row per technique in catalogue order.
func Compare(subject, comparison Ruleset) []Difference {
	rows := make([]Difference, 0, technique.Count())
	for _, t := range technique.All() {
		a, _ := subject.Get(t)
		b, _ := comparison.Get(t)
		rows = append(rows, Difference{
			Technique:  t,
			Subject:    a,
			Comparison: b,
			Same:       a == b,
		})
	}
	return rows
}

// Changed returns only the rows of Compare where the two rulesets disagree.
func Changed(subject, comparison Ruleset) []Difference {
	var out []Difference
	for _, d := range Compare(subject, comparison) {
		if !d.Same {
			out = append(out, d)
		}
	}
	return out
}
