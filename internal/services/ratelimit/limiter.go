// Package ratelimit provides a fixed-window request counter per principal.
package ratelimit

import (
	"hash/fnv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const shardCount = 32

// Result reports the admission decision together with the header values.
// It is populated for every call, rejected or not, so rate-limit headers
// can always be attached to the response.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is the Unix timestamp at which the current window ends.
	ResetAt int64
}

type window struct {
	count       int
	windowStart time.Time
}

type shard struct {
	mu      sync.Mutex
	windows map[string]*window
}

// Limiter is a fixed-window counter rate limiter. State is sharded by
// principal so admissions for different principals never contend on the
// same lock.
type Limiter struct {
	maxRequests int
	windowLen   time.Duration
	shards      [shardCount]*shard

	// now is swappable for tests.
	now func() time.Time
}

// NewLimiter creates a limiter admitting maxRequests per window.
func NewLimiter(maxRequests int, windowLen time.Duration) *Limiter {
	l := &Limiter{
		maxRequests: maxRequests,
		windowLen:   windowLen,
		now:         time.Now,
	}
	for i := range l.shards {
		l.shards[i] = &shard{windows: make(map[string]*window)}
	}
	log.Info().
		Int("max_requests", maxRequests).
		Dur("window", windowLen).
		Msg("rate limiter initialized")
	return l
}

// Admit performs an atomic check-and-increment for the principal's current
// window. Rejected attempts keep counting so a client cannot probe for free
// quota; the counter only resets when the window boundary is crossed.
func (l *Limiter) Admit(principalID string) Result {
	s := l.shardFor(principalID)
	now := l.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[principalID]
	if !ok || !now.Before(w.windowStart.Add(l.windowLen)) {
		w = &window{windowStart: now}
		s.windows[principalID] = w
	}

	w.count++

	allowed := w.count <= l.maxRequests
	remaining := l.maxRequests - w.count
	if remaining < 0 {
		remaining = 0
	}

	result := Result{
		Allowed:   allowed,
		Limit:     l.maxRequests,
		Remaining: remaining,
		ResetAt:   w.windowStart.Add(l.windowLen).Unix(),
	}

	if !allowed {
		log.Warn().
			Str("principal", principalID).
			Int("count", w.count).
			Int("limit", l.maxRequests).
			Msg("rate limit exceeded")
	}

	return result
}

// WindowSeconds returns the configured window length in whole seconds.
func (l *Limiter) WindowSeconds() int {
	return int(l.windowLen / time.Second)
}

func (l *Limiter) shardFor(principalID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(principalID))
	return l.shards[h.Sum32()%shardCount]
}
