package services

import (
	"strings"
	"sync"
	"time"
)

// LoginLimiter locks a (username, client ip) pair out after repeated failed logins.
type LoginLimiter struct {
	mu       sync.Mutex
	failures map[string][]time.Time
	window   time.Duration
	maxFails int
	now      func() time.Time

	lastSweep time.Time
}

// NewLoginLimiter allows maxFails failures per window. maxFails <= 0 disables limiting.
func NewLoginLimiter(maxFails int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		failures: make(map[string][]time.Time),
		window:   window,
		maxFails: maxFails,
		now:      time.Now,
	}
}

func limiterKey(username, ip string) string {
	return strings.ToLower(strings.TrimSpace(username)) + "|" + ip
}

// prune drops failures older than the window. Caller holds mu.
func (l *LoginLimiter) prune(key string, now time.Time) []time.Time {
	var valid []time.Time
	for _, t := range l.failures[key] {
		if now.Sub(t) < l.window {
			valid = append(valid, t)
		}
	}
	if len(valid) == 0 {
		delete(l.failures, key)
	} else {
		l.failures[key] = valid
	}
	return valid
}

// sweep drops every key whose failures have all expired, at most once per
// window. Caller holds mu.
func (l *LoginLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.window {
		return
	}
	l.lastSweep = now
	for key := range l.failures {
		l.prune(key, now)
	}
}

// Allow reports whether a login attempt may proceed and, if not, how long to wait.
func (l *LoginLimiter) Allow(username, ip string) (bool, time.Duration) {
	if l.maxFails <= 0 {
		return true, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	valid := l.prune(limiterKey(username, ip), now)
	if len(valid) < l.maxFails {
		return true, 0
	}
	return false, l.window - now.Sub(valid[0])
}

// Failure records a failed attempt.
func (l *LoginLimiter) Failure(username, ip string) {
	if l.maxFails <= 0 {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	key := limiterKey(username, ip)
	now := l.now()
	l.sweep(now)
	l.failures[key] = append(l.prune(key, now), now)
}

// Success clears the failures of the pair.
func (l *LoginLimiter) Success(username, ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, limiterKey(username, ip))
}
