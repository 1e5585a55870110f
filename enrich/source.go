// Package enrich provides the randomness and clock source behind the
// fabricated presentation fields attached to upstream records. The source is
// injectable so tests can substitute a deterministic generator; the field
// shape, not the values, is the contract.
package enrich

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Source supplies random draws and the current time for enrichment.
type Source struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Source.
type Option func(*Source)

// WithSeed makes the source deterministic for testing.
func WithSeed(seed int64) Option {
	return func(s *Source) {
		s.rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	}
}

// WithNow sets the time function for testing.
func WithNow(now func() time.Time) Option {
	return func(s *Source) {
		s.now = now
	}
}

// NewSource creates a source seeded from the current time.
func NewSource(opts ...Option) *Source {
	s := &Source{
		rng: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the current time.
func (s *Source) Now() time.Time {
	return s.now()
}

// IntN returns a random int in [0, n).
func (s *Source) IntN(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.IntN(n)
}

// PastTime returns a random instant within the past `within` duration.
func (s *Source) PastTime(within time.Duration) time.Time {
	s.mu.Lock()
	offset := time.Duration(s.rng.Int64N(int64(within)))
	s.mu.Unlock()
	return s.now().Add(-offset)
}

// Pick returns a random element of choices.
func Pick[T any](s *Source, choices []T) T {
	return choices[s.IntN(len(choices))]
}

// Excerpt returns the first limit characters of body followed by an
// ellipsis. Bodies at or under the limit still get the ellipsis, matching
// the presentation contract. Truncation is by rune, never splitting a
// multi-byte character.
func Excerpt(body string, limit int) string {
	if body == "" {
		return ""
	}
	if runes := []rune(body); len(runes) > limit {
		body = string(runes[:limit])
	}
	return body + "..."
}
