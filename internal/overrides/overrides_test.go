package overrides

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

func mustBases(t *testing.T) *ruleset.Bases {
	t.Helper()
	bases, err := ruleset.DefaultBases()
	if err != nil {
		t.Fatalf("DefaultBases failed: %v", err)
	}
	return bases
}

func TestParseWeights_UnknownKeyTolerance(t *testing.T) {
	parsed, unknown, err := ParseWeights(map[string]string{
		"FakeFlippers": "69%",
		"typo":         "x",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := map[technique.Technique]rules.Rule{
		technique.FakeFlippers: rules.MustChance(69),
	}
	if diff := cmp.Diff(want, parsed, cmp.Comparer(func(a, b rules.Rule) bool { return a == b })); diff != "" {
		t.Errorf("Parsed mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"typo"}, unknown); diff != "" {
		t.Errorf("Unknown keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWeights_NoUnknownKeysIsNil(t *testing.T) {
	_, unknown, err := ParseWeights(map[string]string{"WaterWalk": "true"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if unknown != nil {
		t.Errorf("Expected nil unknown keys, got %v", unknown)
	}
}

func TestParseWeights_UnknownKeysSorted(t *testing.T) {
	_, unknown, err := ParseWeights(map[string]string{
		"zeta":         "1",
		"alpha":        "2",
		"fakeflippers": "3",
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	want := []string{"alpha", "fakeflippers", "zeta"}
	if diff := cmp.Diff(want, unknown); diff != "" {
		t.Errorf("Unknown keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseWeights_FailureIdentifiesTechnique(t *testing.T) {
	_, _, err := ParseWeights(map[string]string{
		"FakeFlippers": "50",
		"Houlihan":     "maybe",
		"typo":         "whatever",
	})
	if err == nil {
		t.Fatal("Expected error for unparseable value")
	}

	var weightErr *WeightError
	if !errors.As(err, &weightErr) {
		t.Fatalf("Expected *WeightError, got %T", err)
	}
	if weightErr.Technique != technique.Houlihan {
		t.Errorf("Expected Houlihan, got %s", weightErr.Technique)
	}
	if !errors.Is(err, rules.ErrRuleParse) {
		t.Errorf("Expected error to wrap ErrRuleParse, got %v", err)
	}
	want := `technique "Houlihan": Expected "true", "false", or a number.`
	if err.Error() != want {
		t.Errorf("Expected message %q, got %q", want, err.Error())
	}
}

func TestParseWeights_FirstFailureInCatalogueOrder(t *testing.T) {
	_, _, err := ParseWeights(map[string]string{
		"ArbitraryCodeExecution": "nope",
		"WaterWalk":              "1001",
	})
	var weightErr *WeightError
	if !errors.As(err, &weightErr) {
		t.Fatalf("Expected *WeightError, got %v", err)
	}
	if weightErr.Technique != technique.WaterWalk {
		t.Errorf("Expected WaterWalk to fail first, got %s", weightErr.Technique)
	}
}

func TestParseInput(t *testing.T) {
	doc := []byte(`
name: Spring qualifier
defaults: RMGRules
weights:
  FakeFlippers: "69%"
  SuperBunny: TRUE
  MirrorClipping: 950
  MoonJump: "true"
`)

	in, err := ParseInput(doc, mustBases(t))
	if err != nil {
		t.Fatalf("ParseInput failed: %v", err)
	}
	if in.Name != "Spring qualifier" {
		t.Errorf("Expected name %q, got %q", "Spring qualifier", in.Name)
	}
	if in.BaseID != ruleset.RMGRules || in.Base.Name() != "RMG" {
		t.Errorf("Expected RMG base, got %s (%s)", in.BaseID, in.Base.Name())
	}

	want := map[technique.Technique]rules.Rule{
		technique.FakeFlippers:   rules.MustChance(69),
		technique.SuperBunny:     rules.Fixed(rules.Allowed),
		technique.MirrorClipping: rules.MustChance(950),
	}
	if len(in.Overrides) != len(want) {
		t.Fatalf("Expected %d overrides, got %d", len(want), len(in.Overrides))
	}
	for tech, r := range want {
		if in.Overrides[tech] != r {
			t.Errorf("%s: expected %s, got %s", tech, r, in.Overrides[tech])
		}
	}

	warning := in.Warning()
	var unknownErr *UnknownKeysWarning
	if !errors.As(warning, &unknownErr) {
		t.Fatalf("Expected *UnknownKeysWarning, got %v", warning)
	}
	if diff := cmp.Diff([]string{"MoonJump"}, unknownErr.Keys); diff != "" {
		t.Errorf("Warning keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInput_JSON(t *testing.T) {
	doc := []byte(`{"name": "json", "defaults": "MGRules", "weights": {"WaterWalk": "false"}}`)
	in, err := ParseInput(doc, mustBases(t))
	if err != nil {
		t.Fatalf("ParseInput failed: %v", err)
	}
	if in.Overrides[technique.WaterWalk] != rules.Fixed(rules.Disallowed) {
		t.Errorf("Expected WaterWalk false, got %s", in.Overrides[technique.WaterWalk])
	}
	if in.Warning() != nil {
		t.Errorf("Expected no warning, got %v", in.Warning())
	}
}

func TestParseInput_Errors(t *testing.T) {
	bases := mustBases(t)

	tests := []struct {
		name  string
		doc   string
		check func(t *testing.T, err error)
	}{
		{
			name: "malformed document",
			doc:  "name: [unterminated",
			check: func(t *testing.T, err error) {
				var docErr *InputDocumentError
				if !errors.As(err, &docErr) {
					t.Errorf("Expected *InputDocumentError, got %T: %v", err, err)
				}
				if docErr != nil && docErr.Unwrap() == nil {
					t.Error("Expected wrapped decoder error")
				}
			},
		},
		{
			name: "weights not a mapping",
			doc:  "name: x\ndefaults: NMGRules\nweights: [1, 2]\n",
			check: func(t *testing.T, err error) {
				var docErr *InputDocumentError
				if !errors.As(err, &docErr) {
					t.Errorf("Expected *InputDocumentError, got %T: %v", err, err)
				}
			},
		},
		{
			name: "unknown base",
			doc:  "name: x\ndefaults: HMGRules\nweights: {}\n",
			check: func(t *testing.T, err error) {
				var baseErr *ruleset.UnknownBaseRulesetError
				if !errors.As(err, &baseErr) {
					t.Fatalf("Expected *UnknownBaseRulesetError, got %T: %v", err, err)
				}
				if baseErr.Name != "HMGRules" {
					t.Errorf("Expected offending name HMGRules, got %q", baseErr.Name)
				}
			},
		},
		{
			name: "bad weight",
			doc:  "name: x\ndefaults: NMGRules\nweights:\n  BlockClips: x123x\n",
			check: func(t *testing.T, err error) {
				if !errors.Is(err, rules.ErrRuleParse) {
					t.Errorf("Expected ErrRuleParse, got %v", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInput([]byte(tt.doc), bases)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !IsUserError(err) {
				t.Errorf("Expected IsUserError to be true for %v", err)
			}
			tt.check(t, err)
		})
	}
}

func TestIsUserError(t *testing.T) {
	if IsUserError(errors.New("disk full")) {
		t.Error("Expected plain error not to be a user error")
	}
	if IsUserError(nil) {
		t.Error("Expected nil not to be a user error")
	}
}
