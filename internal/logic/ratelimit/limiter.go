package ratelimit

import (
	"fmt"
	"sync"
)

// KeyLimiter manages one token bucket per key, such as a client key on the
// mock partner service. Buckets are created lazily on first access.
type KeyLimiter struct {
	buckets map[string]*TokenBucket
	mu      sync.RWMutex
	config  Config
}

// Config holds the configuration for rate limiting.
type Config struct {
	Capacity   int  // Token bucket capacity (burst allowance)
	RefillRate int  // Tokens added per second (sustained rate)
	Enabled    bool // Whether rate limiting is active
}

// NewKeyLimiter creates a limiter with the given configuration.
func NewKeyLimiter(config Config) *KeyLimiter {
	return &KeyLimiter{
		buckets: make(map[string]*TokenBucket),
		config:  config,
	}
}

// Allow reports whether a request for key may proceed. A disabled limiter
// allows everything.
func (l *KeyLimiter) Allow(key string) bool {
	if l == nil || !l.config.Enabled {
		return true
	}

	l.mu.RLock()
	bucket, exists := l.buckets[key]
	l.mu.RUnlock()

	if !exists {
		l.mu.Lock()
		bucket, exists = l.buckets[key]
		if !exists {
			bucket = NewTokenBucket(l.config.Capacity, l.config.RefillRate)
			l.buckets[key] = bucket
		}
		l.mu.Unlock()
	}

	return bucket.Allow()
}

// GetStats returns a snapshot of rate limiting statistics per key.
func (l *KeyLimiter) GetStats() map[string]RateLimitStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := make(map[string]RateLimitStats, len(l.buckets))
	for key, bucket := range l.buckets {
		hits, total := bucket.Stats()
		hitRate := 0.0
		if total > 0 {
			hitRate = float64(hits) / float64(total)
		}
		stats[key] = RateLimitStats{Key: key, Hits: hits, Total: total, HitRate: hitRate}
	}
	return stats
}

// RateLimitStats contains statistics about rate limiting for a single key.
type RateLimitStats struct {
	Key     string  `json:"key"`
	Hits    int64   `json:"hits"`     // Number of rate limited requests
	Total   int64   `json:"total"`    // Total number of requests processed
	HitRate float64 `json:"hit_rate"` // Share of requests rate limited (0.0-1.0)
}

func (s RateLimitStats) String() string {
	return fmt.Sprintf("%s: %d/%d hits (%.2f%%)", s.Key, s.Hits, s.Total, s.HitRate*100)
}
