package ruleset

import (
	"fmt"

	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

// Canonical identifiers of the base rulesets, as used in the "defaults" field of
// override documents. Matching is exact and case-sensitive.
const (
	NMGRules  = "NMGRules"
	RMGRules  = "RMGRules"
	NoEGRules = "NoEGRules"
	MGRules   = "MGRules"
)

// UnknownBaseRulesetError is returned by Find for a name outside the known set.
type UnknownBaseRulesetError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownBaseRulesetError) Error() string {
	return fmt.Sprintf("unknown base ruleset %q", e.Name)
}

// Base pairs a canonical identifier with its ruleset.
type Base struct {
	ID      string
	Ruleset Ruleset
}

// Bases is the read-only set of base rulesets. It is built once at startup and
// shared by reference; nothing mutates it afterwards.
type Bases struct {
	ordered []Base
	byID    map[string]Ruleset
}

// NewBases builds a set from the given bases. IDs must be unique.
func NewBases(bases ...Base) (*Bases, error) {
	b := &Bases{
		ordered: make([]Base, 0, len(bases)),
		byID:    make(map[string]Ruleset, len(bases)),
	}
	for _, base := range bases {
		if base.ID == "" {
			return nil, fmt.Errorf("base ruleset id must not be empty")
		}
		if _, dup := b.byID[base.ID]; dup {
			return nil, fmt.Errorf("duplicate base ruleset id %q", base.ID)
		}
		b.ordered = append(b.ordered, base)
		b.byID[base.ID] = base.Ruleset
	}
	return b, nil
}

// Find looks up a base ruleset by canonical identifier.
func (b *Bases) Find(id string) (Ruleset, error) {
	rs, ok := b.byID[id]
	if !ok {
		return Ruleset{}, &UnknownBaseRulesetError{Name: id}
	}
	return rs, nil
}

// MustFind is like Find but panics when id is unknown.
func (b *Bases) MustFind(id string) Ruleset {
	rs, err := b.Find(id)
	if err != nil {
		panic(err)
	}
	return rs
}

// All returns the bases in registration order.
func (b *Bases) All() []Base {
	out := make([]Base, len(b.ordered))
	copy(out, b.ordered)
	return out
}

// IDs returns the canonical identifiers in registration order.
func (b *Bases) IDs() []string {
	out := make([]string, len(b.ordered))
	for i, base := range b.ordered {
		out[i] = base.ID
	}
	return out
}

// DefaultBases constructs the community's base rulesets: NMG, RMG, No EG and MG.
// It fails only if a literal below falls out of sync with the technique catalogue.
func DefaultBases() (*Bases, error) {
	nmg, err := New("NMG", map[technique.Technique]rules.Legality{
		technique.FakeFlippers:           rules.Allowed,
		technique.WaterWalk:              rules.Allowed,
		technique.SuperBunny:             rules.Allowed,
		technique.SurfingBunny:           rules.Allowed,
		technique.BunnyPocket:            rules.Allowed,
		technique.UnBunnyBeam:            rules.Allowed,
		technique.DungeonRevival:         rules.Allowed,
		technique.SpookyAction:           rules.Allowed,
		technique.TorchGlitch:            rules.Allowed,
		technique.BlockClips:             rules.Allowed,
		technique.BigBombDupe:            rules.Allowed,
		technique.Houlihan:               rules.Allowed,
		technique.MedallionCancel:        rules.Allowed,
		technique.OverworldClipping:      rules.Disallowed,
		technique.DungeonClipping:        rules.Disallowed,
		technique.MirrorClipping:         rules.Disallowed,
		technique.OverworldYBA:           rules.Disallowed,
		technique.ExplorationGlitch:      rules.Disallowed,
		technique.ArbitraryCodeExecution: rules.Disallowed,
	})
	if err != nil {
		return nil, err
	}

	rmg, err := New("RMG", map[technique.Technique]rules.Legality{
		technique.FakeFlippers:           rules.Allowed,
		technique.WaterWalk:              rules.Allowed,
		technique.SuperBunny:             rules.Allowed,
		technique.SurfingBunny:           rules.Allowed,
		technique.BunnyPocket:            rules.Allowed,
		technique.UnBunnyBeam:            rules.Allowed,
		technique.DungeonRevival:         rules.Allowed,
		technique.SpookyAction:           rules.Allowed,
		technique.TorchGlitch:            rules.Allowed,
		technique.BlockClips:             rules.Allowed,
		technique.BigBombDupe:            rules.Allowed,
		technique.Houlihan:               rules.Allowed,
		technique.MedallionCancel:        rules.Allowed,
		technique.OverworldClipping:      rules.Allowed,
		technique.DungeonClipping:        rules.Allowed,
		technique.MirrorClipping:         rules.Allowed,
		technique.OverworldYBA:           rules.Disallowed,
		technique.ExplorationGlitch:      rules.Disallowed,
		technique.ArbitraryCodeExecution: rules.Disallowed,
	})
	if err != nil {
		return nil, err
	}

	noEG, err := New("No EG", map[technique.Technique]rules.Legality{
		technique.FakeFlippers:           rules.Allowed,
		technique.WaterWalk:              rules.Allowed,
		technique.SuperBunny:             rules.Allowed,
		technique.SurfingBunny:           rules.Allowed,
		technique.BunnyPocket:            rules.Allowed,
		technique.UnBunnyBeam:            rules.Allowed,
		technique.DungeonRevival:         rules.Allowed,
		technique.SpookyAction:           rules.Allowed,
		technique.TorchGlitch:            rules.Allowed,
		technique.BlockClips:             rules.Allowed,
		technique.BigBombDupe:            rules.Allowed,
		technique.Houlihan:               rules.Unspecified,
		technique.MedallionCancel:        rules.Allowed,
		technique.OverworldClipping:      rules.Allowed,
		technique.DungeonClipping:        rules.Allowed,
		technique.MirrorClipping:         rules.Allowed,
		technique.OverworldYBA:           rules.Allowed,
		technique.ExplorationGlitch:      rules.Disallowed,
		technique.ArbitraryCodeExecution: rules.Disallowed,
	})
	if err != nil {
		return nil, err
	}

	mg, err := New("MG", map[technique.Technique]rules.Legality{
		technique.FakeFlippers:           rules.Allowed,
		technique.WaterWalk:              rules.Allowed,
		technique.SuperBunny:             rules.Allowed,
		technique.SurfingBunny:           rules.Allowed,
		technique.BunnyPocket:            rules.Allowed,
		technique.UnBunnyBeam:            rules.Allowed,
		technique.DungeonRevival:         rules.Allowed,
		technique.SpookyAction:           rules.Allowed,
		technique.TorchGlitch:            rules.Allowed,
		technique.BlockClips:             rules.Allowed,
		technique.BigBombDupe:            rules.Allowed,
		technique.Houlihan:               rules.Allowed,
		technique.MedallionCancel:        rules.Allowed,
		technique.OverworldClipping:      rules.Allowed,
		technique.DungeonClipping:        rules.Allowed,
		technique.MirrorClipping:         rules.Allowed,
		technique.OverworldYBA:           rules.Allowed,
		technique.ExplorationGlitch:      rules.Allowed,
		technique.ArbitraryCodeExecution: rules.Unspecified,
	})
	if err != nil {
		return nil, err
	}

	return NewBases(
		Base{ID: NMGRules, Ruleset: nmg},
		Base{ID: RMGRules, Ruleset: rmg},
		Base{ID: NoEGRules, Ruleset: noEG},
		Base{ID: MGRules, Ruleset: mg},
	)
}
