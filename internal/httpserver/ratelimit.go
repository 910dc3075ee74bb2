package httpserver

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// tokenBucket is a simple token bucket rate limiter.
type tokenBucket struct {
	tokens     int
	maxTokens  int
	lastRefill time.Time
	refillRate time.Duration
	mu         sync.Mutex
}

func newTokenBucket(maxTokens int, refillRate time.Duration) *tokenBucket {
	return &tokenBucket{
		tokens:     maxTokens,
		maxTokens:  maxTokens,
		lastRefill: time.Now(),
		refillRate: refillRate,
	}
}

// allow consumes a token if one is available.
func (b *tokenBucket) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(b.lastRefill)

	if elapsed >= b.refillRate {
		tokensToAdd := int(elapsed / b.refillRate)
		b.tokens = min(b.maxTokens, b.tokens+tokensToAdd)
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// rateLimiter keeps a token bucket per client IP. The widget backend sits
// behind public translation and search endpoints, so each client gets its
// own budget instead of one global bucket.
type rateLimiter struct {
	buckets    map[string]*tokenBucket
	mu         sync.RWMutex
	maxTokens  int
	refillRate time.Duration
}

func newRateLimiter(maxTokens int, refillRate time.Duration) *rateLimiter {
	return &rateLimiter{
		buckets:    make(map[string]*tokenBucket),
		maxTokens:  maxTokens,
		refillRate: refillRate,
	}
}

func (rl *rateLimiter) bucketFor(client string) *tokenBucket {
	rl.mu.RLock()
	bucket, ok := rl.buckets[client]
	rl.mu.RUnlock()
	if ok {
		return bucket
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if bucket, ok = rl.buckets[client]; ok {
		return bucket
	}
	bucket = newTokenBucket(rl.maxTokens, rl.refillRate)
	rl.buckets[client] = bucket
	return bucket
}

// middleware rejects requests from clients that exhausted their bucket.
func (rl *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.bucketFor(c.ClientIP()).allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, errorResponse{
				Kind:    "rate_limited",
				Message: "too many requests",
			})
			return
		}
		c.Next()
	}
}
