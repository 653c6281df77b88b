package ruleset

import "github.com/TimurManjosov/rulesetweekly/internal/rules"

// Ruling is a community decision that applies on top of every ruleset.
type Ruling struct {
	Name     string         `json:"name" yaml:"name"`
	Legality rules.Legality `json:"legality" yaml:"legality"`
}

// Supplemental returns the fixed list of supplemental rulings, in display order.
func Supplemental() []Ruling {
	return []Ruling{
		{"Spooky Action", rules.Allowed},
		{"Torch Glitch", rules.Allowed},
		{"Block Clips", rules.Allowed},
		{"Big Bomb Dupe", rules.Allowed},
		{"Water Walk", rules.Allowed},
		{"Houlihan", rules.Allowed},
		{"Medallion Cancel", rules.Allowed},
		{"Super Bunny", rules.Allowed},
		{"Dungeon Revival", rules.Allowed},
		{"Surfing Bunny", rules.Allowed},
		{"Bunny Pocket", rules.Allowed},
		{"UnBunnyBeam", rules.Allowed},
		{"Arbitrary Code Execution", rules.Disallowed},
	}
}
