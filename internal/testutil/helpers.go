// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/TimurManjosov/rulesetweekly/internal/publisher"
	"github.com/TimurManjosov/rulesetweekly/internal/ruleset"
	"github.com/TimurManjosov/rulesetweekly/internal/store"
)

// FixedClock always reports the same instant.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }

// SequenceIDs generates "<prefix>-1", "<prefix>-2", ...
type SequenceIDs struct {
	Prefix string
	n      atomic.Int64
}

func (s *SequenceIDs) Generate() string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = "id"
	}
	return fmt.Sprintf("%s-%d", prefix, s.n.Add(1))
}

// FixedSeed is a SeedGenerator that always returns itself.
type FixedSeed uint64

func (f FixedSeed) Seed() uint64 { return uint64(f) }

// Bases returns the built-in base rulesets, failing the test if they do not load.
func Bases(t *testing.T) *ruleset.Bases {
	t.Helper()
	bases, err := ruleset.DefaultBases()
	if err != nil {
		t.Fatalf("DefaultBases failed: %v", err)
	}
	return bases
}

// NewTestService creates a service over an in-memory store with a clock fixed at now,
// sequential IDs and seed 42 for custom rulesets.
func NewTestService(t *testing.T, now time.Time) (*publisher.Service, *store.MemoryStore) {
	t.Helper()
	memStore := store.NewMemoryStore()
	svc, err := publisher.New(publisher.Options{
		Store:     memStore,
		Bases:     Bases(t),
		WeekStart: time.Sunday,
		Clock:     FixedClock{T: now},
		IDs:       &SequenceIDs{Prefix: "custom"},
		Seeds:     FixedSeed(42),
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("publisher.New failed: %v", err)
	}
	return svc, memStore
}

// HTTPRequest is a helper for making test HTTP requests.
type HTTPRequest struct {
	Method  string
	Path    string
	Body    string
	Headers map[string]string
}

// Do executes the HTTP request and returns the response recorder.
func (r *HTTPRequest) Do(t *testing.T, handler http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if r.Body != "" {
		body = bytes.NewBufferString(r.Body)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req := httptest.NewRequest(method, r.Path, body)
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}
