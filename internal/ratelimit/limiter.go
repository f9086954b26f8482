package ratelimit

import (
	"sync"
	"time"
)

// Policy names a limited action and its per-window budget.
type Policy struct {
	Name string
	Max  int
}

var (
	// OTPRequest limits one-time-code issuance per email.
	OTPRequest = Policy{Name: "otp", Max: 3}
	// Login limits combined login attempts per email.
	Login = Policy{Name: "login", Max: 5}
)

// Decision is the outcome of a single Check call. Count includes the call
// being decided; RetryAfter is how long until the window rolls over.
type Decision struct {
	Allowed    bool
	Count      int
	RetryAfter time.Duration
}

type entry struct {
	count       int
	windowStart time.Time
}

// Limiter keeps fixed-window counters keyed by (policy, email). Counters
// increment first and compare after, so the call that crosses the budget is
// itself denied and denials keep accumulating until the window rolls over or
// Reset is called. Safe for concurrent use.
type Limiter struct {
	window time.Duration
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

func NewLimiter(window time.Duration) *Limiter {
	return &Limiter{
		window:  window,
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Check records one attempt for the email under the policy and decides it.
func (l *Limiter) Check(email string, policy Policy) Decision {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) > pruneThreshold {
		l.prune(now)
	}

	key := policy.Name + ":" + email
	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		e = &entry{windowStart: now}
		l.entries[key] = e
	}
	e.count++

	return Decision{
		Allowed:    e.count <= policy.Max,
		Count:      e.count,
		RetryAfter: l.window - now.Sub(e.windowStart),
	}
}

const pruneThreshold = 1024

// prune drops entries whose window has rolled over. Caller holds the lock.
func (l *Limiter) prune(now time.Time) {
	for key, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, key)
		}
	}
}

// Reset clears the counter for the email under the policy so the next window
// starts fresh. Called on successful login.
func (l *Limiter) Reset(email string, policy Policy) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, policy.Name+":"+email)
}
