// Package weekly derives the reproducible ruleset of a calendar week.
package weekly

import (
	"fmt"
	"strings"
	"time"

	"github.com/TimurManjosov/rulesetweekly/internal/rollout"
	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/template"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

// Name is the name given to every weekly ruleset.
const Name = "Weekly"

// DefaultWeekStart is the weekday a new week begins on.
const DefaultWeekStart = time.Sunday

// SeedOffset is added to the day number of a boundary to form its seed, keeping weekly
// seeds away from small hand-picked seeds used for custom rulesets.
const SeedOffset uint64 = 0x5eedc0de

// unixEpochDay is the day number of 1970-01-01.
const unixEpochDay = 719163

// Clock interface for testable time operations
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using time.Now()
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// MostRecentBoundary returns midnight, in t's location, of the latest day on or before t
// whose weekday is start.
func MostRecentBoundary(t time.Time, start time.Weekday) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	for i := 0; i < 6 && day.Weekday() != start; i++ {
		y, m, d = day.Date()
		day = time.Date(y, m, d-1, 0, 0, 0, 0, t.Location())
	}
	return day
}

// DayNumber returns the calendar date of t as a day count where 0001-01-01 is day 1.
// Only the date matters; the time of day and location offset are ignored.
func DayNumber(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()/86400 + unixEpochDay
}

// SeedFor returns the random seed of the week starting at boundary.
func SeedFor(boundary time.Time) uint64 {
	return uint64(DayNumber(boundary)) + SeedOffset
}

// DisplayName renders a boundary as "June 9, 2024".
func DisplayName(boundary time.Time) string {
	return boundary.Format("January 2, 2006")
}

// ParseWeekday parses an English weekday name, case-insensitively. Three-letter
// abbreviations are accepted.
func ParseWeekday(s string) (time.Weekday, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("invalid weekday %q", s)
}

// weeklyRules is the hand-authored schedule. Changing it changes every week rendered
// afterwards, including weeks already published but not yet stored.
var weeklyRules = map[technique.Technique]rules.Rule{
	technique.FakeFlippers:           rules.UseDefault(),
	technique.WaterWalk:              rules.UseDefault(),
	technique.SuperBunny:             rules.UseDefault(),
	technique.SurfingBunny:           rules.UseDefault(),
	technique.BunnyPocket:            rules.UseDefault(),
	technique.UnBunnyBeam:            rules.UseDefault(),
	technique.DungeonRevival:         rules.UseDefault(),
	technique.SpookyAction:           rules.MustChance(250),
	technique.TorchGlitch:            rules.UseDefault(),
	technique.BlockClips:             rules.UseDefault(),
	technique.BigBombDupe:            rules.Fixed(rules.Allowed),
	technique.Houlihan:               rules.MustChance(500),
	technique.MedallionCancel:        rules.UseDefault(),
	technique.OverworldClipping:      rules.MustChance(700),
	technique.DungeonClipping:        rules.MustChance(800),
	technique.MirrorClipping:         rules.MustChance(850),
	technique.OverworldYBA:           rules.MustChance(900),
	technique.ExplorationGlitch:      rules.MustChance(950),
	technique.ArbitraryCodeExecution: rules.Fixed(rules.Disallowed),
}

// Template returns the weekly schedule.
func Template() template.Template {
	return template.MustLiteral(weeklyRules)
}

// Week is the resolved ruleset of one week together with how it was derived.
type Week struct {
	Boundary time.Time
	Day      int64
	Seed     uint64
	Ruleset  ruleset.Ruleset
}

// Select resolves the week containing now against the NMG base.
func Select(now time.Time, bases *ruleset.Bases, start time.Weekday) (Week, error) {
	base, err := bases.Find(ruleset.NMGRules)
	if err != nil {
		return Week{}, fmt.Errorf("weekly base: %w", err)
	}

	boundary := MostRecentBoundary(now, start)
	seed := SeedFor(boundary)
	rs := template.Resolve(Template(), base, rollout.NewSource(seed), Name)

	return Week{
		Boundary: boundary,
		Day:      DayNumber(boundary),
		Seed:     seed,
		Ruleset:  rs,
	}, nil
}

// Ruleset returns the weekly ruleset for now and the boundary it was derived from.
func Ruleset(now time.Time, bases *ruleset.Bases, start time.Weekday) (ruleset.Ruleset, time.Time, error) {
	w, err := Select(now, bases, start)
	if err != nil {
		return ruleset.Ruleset{}, time.Time{}, err
	}
	return w.Ruleset, w.Boundary, nil
}
