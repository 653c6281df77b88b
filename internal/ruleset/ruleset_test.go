package ruleset

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

func allAs(l rules.Legality) map[technique.Technique]rules.Legality {
	m := make(map[technique.Technique]rules.Legality, technique.Count())
	for _, t := range technique.All() {
		m[t] = l
	}
	return m
}

func TestNew_Complete(t *testing.T) {
	rs, err := New("All allowed", allAs(rules.Allowed))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if rs.Name() != "All allowed" {
		t.Errorf("Expected name 'All allowed', got %q", rs.Name())
	}
	if got := len(rs.Entries()); got != technique.Count() {
		t.Errorf("Expected %d entries, got %d", technique.Count(), got)
	}
}

func TestNew_MissingTechnique(t *testing.T) {
	values := allAs(rules.Allowed)
	delete(values, technique.MirrorClipping)

	_, err := New("partial", values)
	if !errors.Is(err, ErrIncomplete) {
		t.Fatalf("Expected ErrIncomplete, got %v", err)
	}
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("Expected *IncompleteError, got %T", err)
	}
	if len(incomplete.Missing) != 1 || incomplete.Missing[0] != technique.MirrorClipping {
		t.Errorf("Expected Missing=[MirrorClipping], got %v", incomplete.Missing)
	}
}

func TestNew_UnknownTechnique(t *testing.T) {
	values := allAs(rules.Disallowed)
	values["StairClip"] = rules.Allowed

	_, err := New("extra", values)
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("Expected *IncompleteError, got %v", err)
	}
	if len(incomplete.Unknown) != 1 || incomplete.Unknown[0] != "StairClip" {
		t.Errorf("Expected Unknown=[StairClip], got %v", incomplete.Unknown)
	}
}

func TestNew_InvalidLegality(t *testing.T) {
	values := allAs(rules.Allowed)
	values[technique.Houlihan] = ""

	_, err := New("invalid", values)
	var incomplete *IncompleteError
	if !errors.As(err, &incomplete) {
		t.Fatalf("Expected *IncompleteError, got %v", err)
	}
	if len(incomplete.Invalid) != 1 || incomplete.Invalid[0] != technique.Houlihan {
		t.Errorf("Expected Invalid=[Houlihan], got %v", incomplete.Invalid)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	values := allAs(rules.Allowed)
	rs := MustNew("copy", values)

	values[technique.FakeFlippers] = rules.Disallowed
	if l, _ := rs.Get(technique.FakeFlippers); l != rules.Allowed {
		t.Errorf("Ruleset changed after mutating constructor input: got %s", l)
	}

	out := rs.Values()
	out[technique.FakeFlippers] = rules.Disallowed
	if l, _ := rs.Get(technique.FakeFlippers); l != rules.Allowed {
		t.Errorf("Ruleset changed after mutating Values(): got %s", l)
	}
}

func TestEntries_CatalogueOrder(t *testing.T) {
	rs := MustNew("ordered", allAs(rules.Unspecified))
	for i, e := range rs.Entries() {
		if r, _ := technique.Rank(e.Technique); r != i {
			t.Errorf("Entry %d is %s with rank %d", i, e.Technique, r)
		}
	}
}

func TestWithNameAndEqual(t *testing.T) {
	a := MustNew("A", allAs(rules.Allowed))
	b := a.WithName("B")

	if a.Equal(b) {
		t.Error("Rulesets with different names must not be equal")
	}
	if !b.WithName("A").Equal(a) {
		t.Error("Renaming back should produce an equal ruleset")
	}
	if a.Name() != "A" {
		t.Errorf("WithName must not change the receiver, got %q", a.Name())
	}
}

func TestCount(t *testing.T) {
	values := allAs(rules.Allowed)
	values[technique.ExplorationGlitch] = rules.Unspecified
	rs := MustNew("count", values)

	if got := rs.Count(rules.Unspecified); got != 1 {
		t.Errorf("Expected 1 unspecified, got %d", got)
	}
	if got := rs.Count(rules.Allowed); got != technique.Count()-1 {
		t.Errorf("Expected %d allowed, got %d", technique.Count()-1, got)
	}
}

func TestJSONRoundtrip(t *testing.T) {
	values := allAs(rules.Disallowed)
	values[technique.FakeFlippers] = rules.Allowed
	values[technique.ArbitraryCodeExecution] = rules.Unspecified
	original := MustNew("Weekly", values)

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded Ruleset
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decoded.Equal(original) {
		t.Errorf("round-trip mismatch:\n got  %v\n want %v", decoded.Entries(), original.Entries())
	}
}

func TestUnmarshalJSON_RejectsIncomplete(t *testing.T) {
	var rs Ruleset
	err := json.Unmarshal([]byte(`{"name":"broken","ruleset":{"FakeFlippers":"ALLOWED"}}`), &rs)
	if !errors.Is(err, ErrIncomplete) {
		t.Errorf("Expected ErrIncomplete, got %v", err)
	}
}
