// Package technique holds the fixed catalogue of techniques whose legality a ruleset decides.
//
// The catalogue order is the iteration order used everywhere a complete per-technique
// mapping is built or walked: ruleset construction, template construction, resolution
// (random draws are consumed in this order) and display. Appending a technique is
// therefore safe for already-published weeks only if it goes at the end.
package technique

// Technique identifies a named glitch or trick.
type Technique string

// The catalogue, in display and draw order.
const (
	FakeFlippers           Technique = "FakeFlippers"
	WaterWalk              Technique = "WaterWalk"
	SuperBunny             Technique = "SuperBunny"
	SurfingBunny           Technique = "SurfingBunny"
	BunnyPocket            Technique = "BunnyPocket"
	UnBunnyBeam            Technique = "UnBunnyBeam"
	DungeonRevival         Technique = "DungeonRevival"
	SpookyAction           Technique = "SpookyAction"
	TorchGlitch            Technique = "TorchGlitch"
	BlockClips             Technique = "BlockClips"
	BigBombDupe            Technique = "BigBombDupe"
	Houlihan               Technique = "Houlihan"
	MedallionCancel        Technique = "MedallionCancel"
	OverworldClipping      Technique = "OverworldClipping"
	DungeonClipping        Technique = "DungeonClipping"
	MirrorClipping         Technique = "MirrorClipping"
	OverworldYBA           Technique = "OverworldYBA"
	ExplorationGlitch      Technique = "ExplorationGlitch"
	ArbitraryCodeExecution Technique = "ArbitraryCodeExecution"
)

var catalogue = [...]Technique{
	FakeFlippers,
	WaterWalk,
	SuperBunny,
	SurfingBunny,
	BunnyPocket,
	UnBunnyBeam,
	DungeonRevival,
	SpookyAction,
	TorchGlitch,
	BlockClips,
	BigBombDupe,
	Houlihan,
	MedallionCancel,
	OverworldClipping,
	DungeonClipping,
	MirrorClipping,
	OverworldYBA,
	ExplorationGlitch,
	ArbitraryCodeExecution,
}

// ranks is derived once from catalogue; it is never written after init.
var ranks = func() map[Technique]int {
	m := make(map[Technique]int, len(catalogue))
	for i, t := range catalogue {
		m[t] = i
	}
	return m
}()

// All returns the catalogue in order. The returned slice is a copy.
func All() []Technique {
	out := make([]Technique, len(catalogue))
	copy(out, catalogue[:])
	return out
}

// Count returns the number of techniques in the catalogue.
func Count() int {
	return len(catalogue)
}

// Names returns the catalogue as plain strings, in order.
func Names() []string {
	out := make([]string, len(catalogue))
	for i, t := range catalogue {
		out[i] = string(t)
	}
	return out
}

// Rank returns the position of t in the catalogue.
func Rank(t Technique) (int, bool) {
	r, ok := ranks[t]
	return r, ok
}

// Lookup resolves a name to a catalogue technique. Matching is exact and case-sensitive.
func Lookup(name string) (Technique, bool) {
	t := Technique(name)
	if _, ok := ranks[t]; !ok {
		return "", false
	}
	return t, true
}

// IsKnown reports whether t is part of the catalogue.
func (t Technique) IsKnown() bool {
	_, ok := ranks[t]
	return ok
}

func (t Technique) String() string {
	return string(t)
}
