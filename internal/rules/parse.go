package rules

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Sentinel errors returned by this package.
var (
	// ErrRuleParse is returned for override text that is not "true", "false" or a
	// number in range. Its message is shown to end users verbatim.
	ErrRuleParse        = errors.New(`Expected "true", "false", or a number.`)
	ErrInvalidLegality  = errors.New("invalid legality")
	ErrChanceOutOfRange = errors.New("chance must be between 0 and 1000")
)

// chancePattern matches a whole run of decimal digits with an optional trailing "%".
// The "%" is cosmetic: the value is always read as parts per thousand.
var chancePattern = regexp.MustCompile(`^(\d+)%?$`)

// ParseRuleText converts user-supplied override text into a Rule.
//
//	"true"  (any case) -> Fixed(Allowed)
//	"false" (any case) -> Fixed(Disallowed)
//	"69", "69%"        -> ChancePerThousand(69)
//
// Anything else, including negative numbers, trailing garbage and values above 1000,
// returns ErrRuleParse.
func ParseRuleText(text string) (Rule, error) {
	text = strings.TrimSpace(text)

	switch {
	case strings.EqualFold(text, "true"):
		return Fixed(Allowed), nil
	case strings.EqualFold(text, "false"):
		return Fixed(Disallowed), nil
	}

	m := chancePattern.FindStringSubmatch(text)
	if m == nil {
		return Rule{}, ErrRuleParse
	}
	n, err := strconv.ParseUint(m[1], 10, 16)
	if err != nil {
		return Rule{}, ErrRuleParse
	}
	r, err := ChancePerThousand(int(n))
	if err != nil {
		return Rule{}, ErrRuleParse
	}
	return r, nil
}
