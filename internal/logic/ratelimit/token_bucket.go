// Package ratelimit implements token bucket rate limiting for the mock
// partner service.
//
// The token bucket algorithm allows bursts up to the bucket capacity while
// the refill rate bounds the sustained rate. The mock service keeps one
// bucket per integration key so RTPS and placement callers that retry too
// aggressively see the same 429 responses the real service returns.
package ratelimit

import (
	"sync"
	"time"
)

// TokenBucket implements a thread-safe token bucket rate limiter.
//
// The bucket has a fixed capacity and refills at a constant rate.
// Each request consumes one token. When the bucket is empty,
// requests are rejected until tokens refill.
//
// Example usage:
//
//	bucket := NewTokenBucket(20, 5) // 20 burst capacity, 5 tokens/second
//	if bucket.Allow() {
//	    // Serve the pre-screen call
//	} else {
//	    // Respond 429 Too Many Requests
//	}
type TokenBucket struct {
	capacity   int        // Maximum number of tokens the bucket can hold
	tokens     int        // Current number of tokens in the bucket
	refillRate int        // Number of tokens added per second
	lastRefill time.Time  // Last time tokens were added to the bucket
	mu         sync.Mutex // Protects all bucket state
	hitCount   int64      // Number of requests that were rate limited
	totalCount int64      // Total number of requests processed
}

// NewTokenBucket creates a token bucket with the given capacity and refill rate.
//
// Parameters:
//   - capacity: Maximum number of tokens the bucket can hold (burst allowance)
//   - refillRate: Number of tokens added per second (sustained rate limit)
//
// The bucket starts full.
func NewTokenBucket(capacity, refillRate int) *TokenBucket {
	return &TokenBucket{
		capacity:   capacity,
		tokens:     capacity,
		refillRate: refillRate,
		lastRefill: time.Now(),
	}
}

// Allow attempts to consume one token from the bucket.
//
// Returns true if a token was available and consumed (request allowed).
// Returns false if the bucket is empty (request should be refused).
//
// Tokens are refilled for the time elapsed since the last refill before
// the bucket is checked. Allow is safe for concurrent use.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.totalCount++

	// Refill tokens based on elapsed time
	now := time.Now()
	elapsed := now.Sub(tb.lastRefill)

	tokensToAdd := int(elapsed.Seconds() * float64(tb.refillRate))
	if tokensToAdd > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+tokensToAdd)
		tb.lastRefill = now
	}

	// Try to consume a token
	if tb.tokens > 0 {
		tb.tokens--
		return true
	}

	// Bucket empty, the caller gets a 429
	tb.hitCount++
	return false
}

// Stats returns the current rate limiting statistics.
//
// Returns:
//   - hits: Number of requests that were refused
//   - total: Total number of requests seen by this bucket
//
// This method is thread-safe.
func (tb *TokenBucket) Stats() (hits, total int64) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.hitCount, tb.totalCount
}
