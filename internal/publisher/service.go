// Package publisher is the application service behind both binaries: it resolves the
// weekly and custom rulesets, records them in the history store and answers queries
// about them.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/rulesetweekly/internal/overrides"
	"github.com/TimurManjosov/rulesetweekly/internal/rollout"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/snapshot"
	"github.com/TimurManjosov/rulesetweekly/internal/store"
	"github.com/TimurManjosov/rulesetweekly/internal/telemetry"
	"github.com/TimurManjosov/rulesetweekly/internal/template"
	"github.com/TimurManjosov/rulesetweekly/internal/weekly"
)

// DefaultCustomName names custom rulesets whose document has no name.
const DefaultCustomName = "Custom"

// Options configures a Service. Store and Bases are required; everything else has a default.
type Options struct {
	Store     store.Store
	Bases     *ruleset.Bases
	WeekStart time.Weekday
	Clock     weekly.Clock
	IDs       IDGenerator
	Seeds     SeedGenerator
	Metrics   *telemetry.Metrics
	Logger    zerolog.Logger
	Current   *snapshot.Current
}

// Service provides ruleset publication and history.
type Service struct {
	store     store.Store
	bases     *ruleset.Bases
	weekStart time.Weekday
	clock     weekly.Clock
	ids       IDGenerator
	seeds     SeedGenerator
	metrics   *telemetry.Metrics
	log       zerolog.Logger
	current   *snapshot.Current
}

// New creates a Service.
func New(opts Options) (*Service, error) {
	if opts.Store == nil {
		return nil, errors.New("publisher: store is required")
	}
	if opts.Bases == nil {
		return nil, errors.New("publisher: base rulesets are required")
	}
	if opts.Clock == nil {
		opts.Clock = weekly.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = UUIDGenerator{}
	}
	if opts.Seeds == nil {
		opts.Seeds = RandomSeeds{}
	}
	if opts.Current == nil {
		opts.Current = &snapshot.Current{}
	}

	return &Service{
		store:     opts.Store,
		bases:     opts.Bases,
		weekStart: opts.WeekStart,
		clock:     opts.Clock,
		ids:       opts.IDs,
		seeds:     opts.Seeds,
		metrics:   opts.Metrics,
		log:       opts.Logger,
		current:   opts.Current,
	}, nil
}

// Bases returns the base rulesets the service resolves against.
func (s *Service) Bases() *ruleset.Bases { return s.bases }

// Current returns the holder of the last published weekly.
func (s *Service) Current() *snapshot.Current { return s.current }

// Week resolves, without storing, the weekly ruleset of the week containing date.
func (s *Service) Week(date time.Time) (*snapshot.Snapshot, error) {
	w, err := weekly.Select(date, s.bases, s.weekStart)
	if err != nil {
		return nil, err
	}
	s.metrics.ObserveResolution(string(snapshot.KindWeekly))
	return snapshot.NewWeekly(w, ruleset.NMGRules, s.clock.Now()), nil
}

// ThisWeek is Week for the current time.
func (s *Service) ThisWeek() (*snapshot.Snapshot, error) {
	return s.Week(s.clock.Now())
}

// PublishWeekly resolves the current week and records it.
//
// A week is stored once: if it is already in the history the stored snapshot wins and is
// returned, with the conflict logged rather than reported. The stored and the freshly
// resolved rulesets are identical unless the weekly schedule was edited mid-week.
func (s *Service) PublishWeekly(ctx context.Context) (*snapshot.Snapshot, error) {
	return s.PublishWeek(ctx, s.clock.Now())
}

// PublishWeek is PublishWeekly for the week containing date.
func (s *Service) PublishWeek(ctx context.Context, date time.Time) (*snapshot.Snapshot, error) {
	snap, err := s.Week(date)
	if err != nil {
		s.metrics.ObservePublish(telemetry.PublishFailed)
		return nil, err
	}

	err = s.store.Save(ctx, snap)
	switch {
	case err == nil:
		s.metrics.ObservePublish(telemetry.PublishSaved)
		s.log.Info().Str("id", snap.ID).Str("week", snap.DisplayName).Str("etag", snap.ETag).Msg("published weekly ruleset")
	case errors.Is(err, store.ErrAlreadyExists):
		s.metrics.ObservePublish(telemetry.PublishExists)
		stored, getErr := s.store.Get(ctx, snap.ID)
		if getErr != nil {
			return nil, fmt.Errorf("load published week %s: %w", snap.ID, getErr)
		}
		if stored.ETag != snap.ETag {
			s.log.Warn().Str("id", snap.ID).Str("stored", stored.ETag).Str("resolved", snap.ETag).
				Msg("weekly ruleset already published with different content; keeping stored version")
		} else {
			s.log.Debug().Str("id", snap.ID).Msg("weekly ruleset already published")
		}
		snap = stored
	default:
		s.metrics.ObservePublish(telemetry.PublishFailed)
		return nil, fmt.Errorf("save weekly %s: %w", snap.ID, err)
	}

	if s.isCurrentWeek(snap) {
		s.current.Update(snap)
		s.metrics.SetCurrentWeek(snap.Day)
	}
	return snap, nil
}

func (s *Service) isCurrentWeek(snap *snapshot.Snapshot) bool {
	boundary := weekly.MostRecentBoundary(s.clock.Now(), s.weekStart)
	return snap.Day == weekly.DayNumber(boundary)
}

// CustomRequest controls ResolveCustom.
type CustomRequest struct {
	// Seed fixes the random source. When nil a random seed is drawn and recorded in the
	// snapshot so the result can be reproduced.
	Seed *uint64
	// Save stores the result in the history.
	Save bool
}

// CustomResult is a resolved custom ruleset.
type CustomResult struct {
	Snapshot *snapshot.Snapshot
	// Warning is a non-fatal *overrides.UnknownKeysWarning, or nil.
	Warning error
}

// ResolveCustom parses doc, resolves it against the base it names and optionally stores it.
// Errors caused by the document itself satisfy overrides.IsUserError.
func (s *Service) ResolveCustom(ctx context.Context, doc []byte, req CustomRequest) (*CustomResult, error) {
	in, err := overrides.ParseInput(doc, s.bases)
	if err != nil {
		s.metrics.ObserveParseFailure(failureReason(err))
		return nil, err
	}

	warning := in.Warning()
	if warning != nil {
		s.metrics.ObserveUnknownKeys(len(in.UnknownKeys))
		s.log.Warn().Strs("keys", in.UnknownKeys).Str("name", in.Name).Msg("ignoring unknown techniques in override document")
	}

	tmpl, err := template.FromOverrides(in.Overrides)
	if err != nil {
		return nil, err
	}

	var seed uint64
	if req.Seed != nil {
		seed = *req.Seed
	} else {
		seed = s.seeds.Seed()
	}

	name := in.Name
	if name == "" {
		name = DefaultCustomName
	}
	rs := template.Resolve(tmpl, in.Base, rollout.NewSource(seed), name)
	s.metrics.ObserveResolution(string(snapshot.KindCustom))

	snap := snapshot.NewCustom(s.ids.Generate(), rs, in.BaseID, seed, s.clock.Now())
	if req.Save {
		if err := s.store.Save(ctx, snap); err != nil {
			return nil, fmt.Errorf("save custom ruleset: %w", err)
		}
		s.log.Info().Str("id", snap.ID).Str("name", name).Uint64("seed", seed).Msg("saved custom ruleset")
	}

	return &CustomResult{Snapshot: snap, Warning: warning}, nil
}

func failureReason(err error) string {
	var (
		weightErr *overrides.WeightError
		docErr    *overrides.InputDocumentError
		baseErr   *ruleset.UnknownBaseRulesetError
	)
	switch {
	case errors.As(err, &docErr):
		return "document"
	case errors.As(err, &weightErr):
		return "weight"
	case errors.As(err, &baseErr):
		return "base"
	default:
		return "other"
	}
}

// History lists stored snapshots ordered by day.
func (s *Service) History(ctx context.Context) ([]snapshot.Summary, error) {
	return s.store.List(ctx)
}

// Get returns a stored snapshot.
func (s *Service) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	return s.store.Get(ctx, id)
}
