package weekly

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func mustBases(t *testing.T) *ruleset.Bases {
	t.Helper()
	bases, err := ruleset.DefaultBases()
	if err != nil {
		t.Fatalf("DefaultBases failed: %v", err)
	}
	return bases
}

func TestMostRecentBoundary_WeekStability(t *testing.T) {
	want := date(2024, time.June, 9) // a Sunday
	for offset := 0; offset < 7; offset++ {
		day := want.AddDate(0, 0, offset).Add(13*time.Hour + 37*time.Minute)
		if got := MostRecentBoundary(day, time.Sunday); !got.Equal(want) {
			t.Errorf("%s: expected boundary %s, got %s", day.Format(time.DateOnly), want.Format(time.DateOnly), got.Format(time.DateOnly))
		}
	}

	next := MostRecentBoundary(want.AddDate(0, 0, 7), time.Sunday)
	if !next.Equal(date(2024, time.June, 16)) {
		t.Errorf("Expected next week's boundary to be 2024-06-16, got %s", next.Format(time.DateOnly))
	}
}

func TestMostRecentBoundary_OtherWeekStarts(t *testing.T) {
	wednesday := date(2024, time.June, 12)
	tests := []struct {
		start time.Weekday
		want  time.Time
	}{
		{time.Sunday, date(2024, time.June, 9)},
		{time.Monday, date(2024, time.June, 10)},
		{time.Wednesday, date(2024, time.June, 12)},
		{time.Thursday, date(2024, time.June, 6)},
		{time.Saturday, date(2024, time.June, 8)},
	}

	for _, tt := range tests {
		t.Run(tt.start.String(), func(t *testing.T) {
			got := MostRecentBoundary(wednesday, tt.start)
			if !got.Equal(tt.want) {
				t.Errorf("Expected %s, got %s", tt.want.Format(time.DateOnly), got.Format(time.DateOnly))
			}
			if got.Weekday() != tt.start {
				t.Errorf("Expected weekday %s, got %s", tt.start, got.Weekday())
			}
		})
	}
}

func TestMostRecentBoundary_KeepsLocation(t *testing.T) {
	pacific := time.FixedZone("UTC-8", -8*3600)
	// 23:00 on Wednesday in UTC-8 is already Thursday in UTC.
	now := time.Date(2024, time.June, 12, 23, 0, 0, 0, pacific)

	got := MostRecentBoundary(now, time.Sunday)
	if got.Location() != pacific {
		t.Errorf("Expected boundary in %s, got %s", pacific, got.Location())
	}
	if y, m, d := got.Date(); y != 2024 || m != time.June || d != 9 {
		t.Errorf("Expected 2024-06-09, got %s", got.Format(time.DateOnly))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("Expected midnight, got %s", got.Format(time.TimeOnly))
	}
}

func TestDayNumber(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int64
	}{
		{date(1, time.January, 1), 1},
		{date(1970, time.January, 1), 719163},
		{date(2024, time.June, 9), 739046},
		{date(2024, time.June, 16), 739053},
		{time.Date(2024, time.June, 9, 23, 59, 0, 0, time.FixedZone("UTC+14", 14*3600)), 739046},
	}

	for _, tt := range tests {
		if got := DayNumber(tt.in); got != tt.want {
			t.Errorf("DayNumber(%s) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestSeedFor(t *testing.T) {
	a := SeedFor(date(2024, time.June, 9))
	if a != 1593378756 {
		t.Errorf("Expected seed 1593378756, got %d", a)
	}

	seen := map[uint64]string{}
	start := date(2020, time.January, 5)
	for week := 0; week < 520; week++ {
		b := start.AddDate(0, 0, 7*week)
		s := SeedFor(b)
		if prev, dup := seen[s]; dup {
			t.Fatalf("Seed collision between %s and %s", prev, b.Format(time.DateOnly))
		}
		seen[s] = b.Format(time.DateOnly)
	}
}

func TestTemplate_Complete(t *testing.T) {
	tmpl := Template()
	if len(tmpl.Entries()) != technique.Count() {
		t.Fatalf("Expected %d entries, got %d", technique.Count(), len(tmpl.Entries()))
	}
	if tmpl.Draws() != 7 {
		t.Errorf("Expected 7 chance rules, got %d", tmpl.Draws())
	}
	if r := tmpl.Rule(technique.ArbitraryCodeExecution); r != rules.Fixed(rules.Disallowed) {
		t.Errorf("Expected ACE fixed to false, got %s", r)
	}
}

func TestSelect_Golden(t *testing.T) {
	bases := mustBases(t)
	nmg := bases.MustFind(ruleset.NMGRules)

	tests := []struct {
		name    string
		now     time.Time
		changed map[technique.Technique]rules.Legality
	}{
		{
			// Rolls 340 13 554 395 228 527 172: only SpookyAction beats its chance
			// and NMG already allows it.
			name:    "week of 2024-06-09",
			now:     time.Date(2024, time.June, 12, 18, 0, 0, 0, time.UTC),
			changed: nil,
		},
		{
			// Rolls 127 212 42 382 459 196 973: ExplorationGlitch (950) is force-allowed.
			name: "week of 2024-06-16",
			now:  time.Date(2024, time.June, 16, 0, 0, 0, 0, time.UTC),
			changed: map[technique.Technique]rules.Legality{
				technique.ExplorationGlitch: rules.Allowed,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := Select(tt.now, bases, time.Sunday)
			if err != nil {
				t.Fatalf("Select failed: %v", err)
			}
			if w.Ruleset.Name() != Name {
				t.Errorf("Expected name %q, got %q", Name, w.Ruleset.Name())
			}
			if w.Seed != SeedFor(w.Boundary) || w.Day != DayNumber(w.Boundary) {
				t.Errorf("Week metadata inconsistent: %+v", w)
			}

			want := nmg.Values()
			for tech, l := range tt.changed {
				want[tech] = l
			}
			if diff := cmp.Diff(want, w.Ruleset.Values()); diff != "" {
				t.Errorf("Golden mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRuleset_SameWeekSameResult(t *testing.T) {
	bases := mustBases(t)
	monday := time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)
	saturday := time.Date(2024, time.March, 9, 22, 0, 0, 0, time.UTC)

	a, ba, err := Ruleset(monday, bases, time.Sunday)
	if err != nil {
		t.Fatalf("Ruleset failed: %v", err)
	}
	b, bb, err := Ruleset(saturday, bases, time.Sunday)
	if err != nil {
		t.Fatalf("Ruleset failed: %v", err)
	}
	if !ba.Equal(bb) {
		t.Errorf("Expected same boundary, got %s and %s", ba, bb)
	}
	if !a.Equal(b) {
		t.Error("Expected identical rulesets within a week")
	}
}

func TestSelect_MissingNMG(t *testing.T) {
	rs, err := ruleset.DefaultBases()
	if err != nil {
		t.Fatal(err)
	}
	only, err := ruleset.NewBases(ruleset.Base{ID: ruleset.MGRules, Ruleset: rs.MustFind(ruleset.MGRules)})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Select(time.Now(), only, time.Sunday); err == nil {
		t.Error("Expected error when NMG base is missing")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(date(2024, time.June, 9)); got != "June 9, 2024" {
		t.Errorf("Expected %q, got %q", "June 9, 2024", got)
	}
}

func TestParseWeekday(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Weekday
		wantErr bool
	}{
		{"sunday", time.Sunday, false},
		{"Monday", time.Monday, false},
		{" SATURDAY ", time.Saturday, false},
		{"wed", time.Wednesday, false},
		{"thu", time.Thursday, false},
		{"", 0, true},
		{"funday", 0, true},
		{"su", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseWeekday(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekday(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseWeekday(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}
