package bridge

import (
	"sync"
	"time"
)

const rateLimitWindowMs = 60000

// RateLimiter implements per-IP rate limiting with a sliding one-minute
// window.
type RateLimiter struct {
	limits            map[string]*RateLimitState
	maxRequestsPerMin int
	mu                sync.Mutex
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

// NewRateLimiter creates a rate limiter allowing maxRequestsPerMinute per IP.
func NewRateLimiter(maxRequestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		limits:            make(map[string]*RateLimitState),
		maxRequestsPerMin: maxRequestsPerMinute,
		cleanupInterval:   5 * time.Minute,
		stopCleanup:       make(chan struct{}),
	}

	go rl.startCleanup()

	return rl
}

// CheckLimit reports whether a request from the given IP is allowed, and
// records it if so.
func (rl *RateLimiter) CheckLimit(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UnixMilli()

	state, exists := rl.limits[ip]
	if !exists {
		state = &RateLimitState{Requests: make([]int64, 0)}
		rl.limits[ip] = state
	}

	valid := state.Requests[:0]
	for _, reqTime := range state.Requests {
		if now-reqTime < rateLimitWindowMs {
			valid = append(valid, reqTime)
		}
	}
	state.Requests = valid

	if len(state.Requests) >= rl.maxRequestsPerMin {
		return false
	}

	state.Requests = append(state.Requests, now)
	return true
}

// GetRetryAfter returns the number of seconds until the window frees up.
func (rl *RateLimiter) GetRetryAfter(ip string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, exists := rl.limits[ip]
	if !exists || len(state.Requests) == 0 {
		return 0
	}

	now := time.Now().UnixMilli()
	retryAfterMs := rateLimitWindowMs - (now - state.Requests[0])
	if retryAfterMs < 0 {
		return 0
	}

	return int((retryAfterMs + 999) / 1000)
}

func (rl *RateLimiter) startCleanup() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UnixMilli()

	for ip, state := range rl.limits {
		valid := state.Requests[:0]
		for _, reqTime := range state.Requests {
			if now-reqTime < rateLimitWindowMs {
				valid = append(valid, reqTime)
			}
		}

		if len(valid) == 0 {
			delete(rl.limits, ip)
		} else {
			state.Requests = valid
		}
	}
}

// Stop stops the cleanup goroutine.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}
