package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheck_BudgetBoundary(t *testing.T) {
	l := NewLimiter(15 * time.Minute)

	for i := 1; i <= Login.Max; i++ {
		d := l.Check("a@x.com", Login)
		assert.True(t, d.Allowed, "attempt %d should be allowed", i)
		assert.Equal(t, i, d.Count)
	}

	d := l.Check("a@x.com", Login)
	assert.False(t, d.Allowed)
	assert.Equal(t, Login.Max+1, d.Count)

	// denial persists and keeps counting
	d = l.Check("a@x.com", Login)
	assert.False(t, d.Allowed)
	assert.Equal(t, Login.Max+2, d.Count)
}

func TestCheck_PoliciesIndependent(t *testing.T) {
	l := NewLimiter(15 * time.Minute)

	for i := 0; i <= OTPRequest.Max; i++ {
		l.Check("a@x.com", OTPRequest)
	}
	assert.False(t, l.Check("a@x.com", OTPRequest).Allowed)

	// login counter for the same email is untouched
	assert.True(t, l.Check("a@x.com", Login).Allowed)
	// other emails are untouched
	assert.True(t, l.Check("b@x.com", OTPRequest).Allowed)
}

func TestCheck_WindowRollover(t *testing.T) {
	l := NewLimiter(15 * time.Minute)
	now := time.Unix(1700000000, 0)
	l.now = func() time.Time { return now }

	for i := 0; i <= Login.Max; i++ {
		l.Check("a@x.com", Login)
	}
	assert.False(t, l.Check("a@x.com", Login).Allowed)

	now = now.Add(15 * time.Minute)
	d := l.Check("a@x.com", Login)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestReset(t *testing.T) {
	l := NewLimiter(15 * time.Minute)

	for i := 0; i <= Login.Max; i++ {
		l.Check("a@x.com", Login)
	}
	assert.False(t, l.Check("a@x.com", Login).Allowed)

	l.Reset("a@x.com", Login)

	d := l.Check("a@x.com", Login)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Count)
}

func TestCheck_RetryAfter(t *testing.T) {
	l := NewLimiter(15 * time.Minute)
	now := time.Unix(1700000000, 0)
	l.now = func() time.Time { return now }

	d := l.Check("a@x.com", Login)
	assert.Equal(t, 15*time.Minute, d.RetryAfter)

	now = now.Add(5 * time.Minute)
	d = l.Check("a@x.com", Login)
	assert.Equal(t, 10*time.Minute, d.RetryAfter)
}

func TestCheck_ConcurrentIncrements(t *testing.T) {
	l := NewLimiter(15 * time.Minute)

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			l.Check("a@x.com", Login)
		}()
	}
	wg.Wait()

	d := l.Check("a@x.com", Login)
	assert.Equal(t, goroutines+1, d.Count)
}
