// Package template holds per-technique rules and resolves them against a base ruleset.
package template

import (
	"errors"
	"fmt"
	"sort"

	"github.com/TimurManjosov/rulesetweekly/internal/rollout"
	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

var (
	// ErrUnknownTechnique is returned when a template names a technique outside the catalogue.
	ErrUnknownTechnique = errors.New("unknown technique")
	// ErrMissingTechnique is returned by Literal when a technique has no rule.
	ErrMissingTechnique = errors.New("missing technique")
	// ErrInvalidRule is returned for a fixed rule carrying an invalid legality.
	ErrInvalidRule = errors.New("invalid rule")
)

// Template is one rule per catalogue technique. Like a Ruleset it can only be built
// complete, so resolution never meets a technique without a rule.
type Template struct {
	rules map[technique.Technique]rules.Rule
}

// FromOverrides returns a template where every technique not present in overrides
// defers to the base ruleset.
func FromOverrides(overrides map[technique.Technique]rules.Rule) (Template, error) {
	if err := checkKnown(overrides); err != nil {
		return Template{}, err
	}

	t := Template{rules: make(map[technique.Technique]rules.Rule, technique.Count())}
	for _, tech := range technique.All() {
		t.rules[tech] = overrides[tech] // zero Rule is UseDefault
	}
	return t, nil
}

// Literal returns a fully specified template. Every catalogue technique must be present.
func Literal(schedule map[technique.Technique]rules.Rule) (Template, error) {
	if err := checkKnown(schedule); err != nil {
		return Template{}, err
	}

	t := Template{rules: make(map[technique.Technique]rules.Rule, technique.Count())}
	for _, tech := range technique.All() {
		r, ok := schedule[tech]
		if !ok {
			return Template{}, fmt.Errorf("%w: %s", ErrMissingTechnique, tech)
		}
		t.rules[tech] = r
	}
	return t, nil
}

// MustLiteral is like Literal but panics on error.
func MustLiteral(schedule map[technique.Technique]rules.Rule) Template {
	t, err := Literal(schedule)
	if err != nil {
		panic(err)
	}
	return t
}

func checkKnown(m map[technique.Technique]rules.Rule) error {
	var unknown []string
	for tech, r := range m {
		if !tech.IsKnown() {
			unknown = append(unknown, string(tech))
			continue
		}
		if l, fixed := r.Legality(); fixed && !l.Valid() {
			return fmt.Errorf("%w: %s: legality %q", ErrInvalidRule, tech, l)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: %v", ErrUnknownTechnique, unknown)
}

// Rule returns the rule for tech. Techniques outside the catalogue report UseDefault.
func (t Template) Rule(tech technique.Technique) rules.Rule {
	return t.rules[tech]
}

// Entry is one technique and its rule.
type Entry struct {
	Technique technique.Technique
	Rule      rules.Rule
}

// Entries returns the rules in catalogue order.
func (t Template) Entries() []Entry {
	out := make([]Entry, 0, technique.Count())
	for _, tech := range technique.All() {
		out = append(out, Entry{Technique: tech, Rule: t.rules[tech]})
	}
	return out
}

// Draws returns how many random draws Resolve consumes for t.
func (t Template) Draws() int {
	n := 0
	for _, r := range t.rules {
		if r.Kind() == rules.KindChance {
			n++
		}
	}
	return n
}

// Resolve combines t, base and src into a ruleset named name. base must be a ruleset
// obtained from ruleset.New.
//
// Techniques are visited in catalogue order. Fixed rules and UseDefault rules consume no
// randomness; each chance rule consumes exactly one roll. A chance rule force-allows the
// technique when the roll beats its chance and otherwise keeps the base value.
func Resolve(t Template, base ruleset.Ruleset, src rollout.Source, name string) ruleset.Ruleset {
	values := make(map[technique.Technique]rules.Legality, technique.Count())
	for _, tech := range technique.All() {
		fallback, _ := base.Get(tech)
		r := t.rules[tech]

		switch r.Kind() {
		case rules.KindFixed:
			values[tech], _ = r.Legality()
		case rules.KindChance:
			chance, _ := r.Chance()
			// chance is validated at construction, so the error branch cannot be taken
			if forced, err := rollout.ForcesAllowed(chance, rollout.Roll(src)); err == nil && forced {
				values[tech] = rules.Allowed
			} else {
				values[tech] = fallback
			}
		default:
			values[tech] = fallback
		}
	}
	return ruleset.MustNew(name, values)
}
