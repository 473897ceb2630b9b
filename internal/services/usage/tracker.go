// Package usage tracks trial-quota consumption for anonymous principals.
package usage

import (
	"sync"

	"github.com/eventscout/chat-service/internal/domain/models"
)

// Tracker counts interactions per anonymous session. Authenticated
// principals are never tracked; their Stats always report zero usage.
type Tracker struct {
	trialLimit int

	mu     sync.Mutex
	counts map[string]int
}

// NewTracker creates a tracker with the given trial limit.
func NewTracker(trialLimit int) *Tracker {
	return &Tracker{
		trialLimit: trialLimit,
		counts:     make(map[string]int),
	}
}

// TrialLimit returns the configured interaction cap.
func (t *Tracker) TrialLimit() int {
	return t.trialLimit
}

// Exceeded reports whether the principal has used up its trial quota.
// Checked before Increment so the limit-hit request itself is not counted.
func (t *Tracker) Exceeded(p models.Principal) bool {
	if !p.IsAnonymous() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counts[p.ID] >= t.trialLimit
}

// Increment records one interaction for an anonymous principal and returns
// the updated stats. A no-op returning zeroed stats for authenticated users.
func (t *Tracker) Increment(p models.Principal) models.UsageStats {
	if !p.IsAnonymous() {
		return models.UsageStats{TrialLimit: t.trialLimit}
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[p.ID]++
	return models.UsageStats{
		TotalInteractions: t.counts[p.ID],
		TrialLimit:        t.trialLimit,
	}
}

// Stats returns the current usage for a principal without mutating it.
func (t *Tracker) Stats(p models.Principal) models.UsageStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return models.UsageStats{
		TotalInteractions: t.counts[p.ID],
		TrialLimit:        t.trialLimit,
	}
}
