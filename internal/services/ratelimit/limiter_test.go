package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(maxRequests int, window time.Duration, now *time.Time) *Limiter {
	l := NewLimiter(maxRequests, window)
	l.now = func() time.Time { return *now }
	return l
}

func TestLimiter_AdmitsUpToLimit(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(3, time.Minute, &now)

	for i := 0; i < 3; i++ {
		result := l.Admit("user-1")
		assert.True(t, result.Allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 3, result.Limit)
		assert.Equal(t, 3-(i+1), result.Remaining)
	}
}

func TestLimiter_RejectsOverLimit(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(2, time.Minute, &now)

	l.Admit("user-1")
	l.Admit("user-1")

	result := l.Admit("user-1")
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.Equal(t, now.Add(time.Minute).Unix(), result.ResetAt)
}

func TestLimiter_RejectedAttemptsKeepCounting(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(1, time.Minute, &now)

	l.Admit("user-1")

	// Hammering while rejected must not open a gap in the window.
	for i := 0; i < 5; i++ {
		result := l.Admit("user-1")
		assert.False(t, result.Allowed)
	}

	// Still inside the window: one more attempt is still rejected.
	now = now.Add(30 * time.Second)
	result := l.Admit("user-1")
	assert.False(t, result.Allowed)
}

func TestLimiter_WindowResetRestoresQuota(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(2, time.Minute, &now)

	l.Admit("user-1")
	l.Admit("user-1")
	require.False(t, l.Admit("user-1").Allowed)

	// Crossing the window boundary starts a fresh count.
	now = now.Add(time.Minute + time.Second)
	result := l.Admit("user-1")
	assert.True(t, result.Allowed)
	assert.Equal(t, 1, result.Remaining)
	assert.Equal(t, now.Add(time.Minute).Unix(), result.ResetAt)
}

func TestLimiter_PrincipalsAreIndependent(t *testing.T) {
	now := time.Now()
	l := newTestLimiter(1, time.Minute, &now)

	require.True(t, l.Admit("user-1").Allowed)
	require.False(t, l.Admit("user-1").Allowed)

	assert.True(t, l.Admit("user-2").Allowed)
}

func TestLimiter_ConcurrentAdmissionsNeverExceedLimit(t *testing.T) {
	l := NewLimiter(10, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if l.Admit("user-1").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, allowed)
}

func TestLimiter_ConcurrentPrincipalsDoNotInterfere(t *testing.T) {
	l := NewLimiter(5, time.Minute)

	var wg sync.WaitGroup
	results := make([]int, 20)

	for p := 0; p < 20; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			id := fmt.Sprintf("user-%d", p)
			for i := 0; i < 10; i++ {
				if l.Admit(id).Allowed {
					results[p]++
				}
			}
		}(p)
	}
	wg.Wait()

	for p, allowed := range results {
		assert.Equal(t, 5, allowed, "principal %d", p)
	}
}

func TestLimiter_WindowSeconds(t *testing.T) {
	l := NewLimiter(10, 90*time.Second)

	assert.Equal(t, 90, l.WindowSeconds())
}
