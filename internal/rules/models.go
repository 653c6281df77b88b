// Package rules defines the per-technique legality values and template rules,
// and the parser that turns free-form override text into a Rule.
package rules

import (
	"fmt"
	"strings"
)

// Legality is the ruling on one technique.
type Legality string

// Supported legality values (string values for clean JSON/YAML serialization).
const (
	Allowed     Legality = "ALLOWED"
	Disallowed  Legality = "DISALLOWED"
	Unspecified Legality = "UNSPECIFIED"
)

// validLegalities is the set of all recognised legality values.
var validLegalities = map[Legality]struct{}{
	Allowed:     {},
	Disallowed:  {},
	Unspecified: {},
}

// Valid reports whether l is one of the three legality values.
func (l Legality) Valid() bool {
	_, ok := validLegalities[l]
	return ok
}

func (l Legality) String() string {
	return string(l)
}

// ParseLegality converts text to a Legality. Matching is case-insensitive.
func ParseLegality(text string) (Legality, error) {
	l := Legality(strings.ToUpper(strings.TrimSpace(text)))
	if !l.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidLegality, text)
	}
	return l, nil
}

// MarshalText implements encoding.TextMarshaler.
func (l Legality) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLegality, string(l))
	}
	return []byte(l), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Legality) UnmarshalText(text []byte) error {
	parsed, err := ParseLegality(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// Kind discriminates the Rule variants.
type Kind uint8

const (
	// KindUseDefault defers to the base ruleset. It is the zero Kind.
	KindUseDefault Kind = iota
	// KindFixed forces a legality regardless of the base.
	KindFixed
	// KindChance force-allows the technique with a per-thousand roll.
	KindChance
)

func (k Kind) String() string {
	switch k {
	case KindUseDefault:
		return "default"
	case KindFixed:
		return "fixed"
	case KindChance:
		return "chance"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// MaxChance is the upper bound of ChancePerThousand.
const MaxChance = 1000

// Rule is one template entry. The zero value is UseDefault.
// Rules are comparable with ==.
type Rule struct {
	kind     Kind
	legality Legality
	chance   uint16
}

// UseDefault returns the rule that defers to the base ruleset.
func UseDefault() Rule {
	return Rule{}
}

// Fixed returns the rule forcing l.
func Fixed(l Legality) Rule {
	return Rule{kind: KindFixed, legality: l}
}

// ChancePerThousand returns the probabilistic rule for n in [0, 1000].
func ChancePerThousand(n int) (Rule, error) {
	if n < 0 || n > MaxChance {
		return Rule{}, fmt.Errorf("%w: got %d", ErrChanceOutOfRange, n)
	}
	return Rule{kind: KindChance, chance: uint16(n)}, nil
}

// MustChance is like ChancePerThousand but panics on an out-of-range value.
// It is meant for hand-authored template literals.
func MustChance(n int) Rule {
	r, err := ChancePerThousand(n)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the variant of r.
func (r Rule) Kind() Kind { return r.kind }

// Legality returns the forced value of a Fixed rule.
func (r Rule) Legality() (Legality, bool) {
	return r.legality, r.kind == KindFixed
}

// Chance returns the per-thousand value of a chance rule.
func (r Rule) Chance() (int, bool) {
	return int(r.chance), r.kind == KindChance
}

func (r Rule) String() string {
	switch r.kind {
	case KindFixed:
		switch r.legality {
		case Allowed:
			return "true"
		case Disallowed:
			return "false"
		default:
			return strings.ToLower(string(r.legality))
		}
	case KindChance:
		return fmt.Sprintf("%d‰", r.chance)
	default:
		return "default"
	}
}
