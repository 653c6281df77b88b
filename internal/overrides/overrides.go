// Package overrides parses untrusted override documents into template rules.
//
// A document names a base ruleset and maps technique names to free-text values:
//
//	name: Spring qualifier
//	defaults: NMGRules
//	weights:
//	  FakeFlippers: "69%"
//	  WaterWalk: "true"
//
// JSON documents are accepted too, since JSON is a subset of YAML.
package overrides

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TimurManjosov/rulesetweekly/internal/rules"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/technique"
)

// Document is the raw input document before validation.
type Document struct {
	Name     string            `yaml:"name" json:"name"`
	Defaults string            `yaml:"defaults" json:"defaults"`
	Weights  map[string]string `yaml:"weights" json:"weights"`
}

// WeightError reports which technique's value failed to parse.
type WeightError struct {
	Technique technique.Technique
	Text      string
	Err       error
}

func (e *WeightError) Error() string {
	return fmt.Sprintf("technique %q: %v", e.Technique, e.Err)
}

func (e *WeightError) Unwrap() error { return e.Err }

// InputDocumentError is returned when the document itself cannot be decoded.
type InputDocumentError struct {
	Err error
}

func (e *InputDocumentError) Error() string {
	return fmt.Sprintf("invalid override document: %v", e.Err)
}

func (e *InputDocumentError) Unwrap() error { return e.Err }

// UnknownKeysWarning lists weight keys that are not catalogue techniques.
// It is never returned as an error from ParseInput; callers get it from Input.Warning.
type UnknownKeysWarning struct {
	Keys []string
}

func (w *UnknownKeysWarning) Error() string {
	return fmt.Sprintf("ignored unknown techniques: %s", strings.Join(w.Keys, ", "))
}

// ParseWeights parses every recognised key of raw in catalogue order.
// The first unparseable value aborts with a *WeightError. Keys that are not catalogue
// technique names are returned sorted as unknown; unknown is nil when there are none.
func ParseWeights(raw map[string]string) (parsed map[technique.Technique]rules.Rule, unknown []string, err error) {
	parsed = make(map[technique.Technique]rules.Rule)
	for _, tech := range technique.All() {
		text, ok := raw[string(tech)]
		if !ok {
			continue
		}
		r, err := rules.ParseRuleText(text)
		if err != nil {
			return nil, nil, &WeightError{Technique: tech, Text: text, Err: err}
		}
		parsed[tech] = r
	}

	for key := range raw {
		if _, ok := technique.Lookup(key); !ok {
			unknown = append(unknown, key)
		}
	}
	sort.Strings(unknown)
	return parsed, unknown, nil
}

// Input is a validated override document.
type Input struct {
	Name        string
	BaseID      string
	Base        ruleset.Ruleset
	Overrides   map[technique.Technique]rules.Rule
	UnknownKeys []string
}

// Warning returns a non-fatal *UnknownKeysWarning, or nil when every key was recognised.
func (in Input) Warning() error {
	if len(in.UnknownKeys) == 0 {
		return nil
	}
	return &UnknownKeysWarning{Keys: in.UnknownKeys}
}

// Decode decodes a document without validating it.
func Decode(doc []byte) (Document, error) {
	var d Document
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return Document{}, &InputDocumentError{Err: err}
	}
	return d, nil
}

// ParseInput decodes doc, parses its weights and resolves its base ruleset.
//
// Errors:
//   - *InputDocumentError when doc is not a well-formed document
//   - *WeightError when a recognised technique has an unparseable value
//   - *ruleset.UnknownBaseRulesetError when defaults names no known base
//
// Unknown weight keys do not fail the parse; see Input.Warning.
func ParseInput(doc []byte, bases *ruleset.Bases) (Input, error) {
	d, err := Decode(doc)
	if err != nil {
		return Input{}, err
	}
	return d.Validate(bases)
}

// Validate parses the weights of d and resolves its base ruleset.
func (d Document) Validate(bases *ruleset.Bases) (Input, error) {
	parsed, unknown, err := ParseWeights(d.Weights)
	if err != nil {
		return Input{}, err
	}

	base, err := bases.Find(d.Defaults)
	if err != nil {
		return Input{}, err
	}

	return Input{
		Name:        d.Name,
		BaseID:      d.Defaults,
		Base:        base,
		Overrides:   parsed,
		UnknownKeys: unknown,
	}, nil
}

// IsUserError reports whether err was caused by the submitted document rather than by
// the service, so callers can show its message to the submitter.
func IsUserError(err error) bool {
	var (
		weightErr *WeightError
		docErr    *InputDocumentError
		baseErr   *ruleset.UnknownBaseRulesetError
	)
	return errors.As(err, &weightErr) || errors.As(err, &docErr) || errors.As(err, &baseErr)
}
