package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// IPRateLimiter manages rate limiters per IP address
type IPRateLimiter struct {
	ips map[string]*rate.Limiter
	mu  *sync.RWMutex
	r   rate.Limit // requests per second
	b   int        // burst size
}

// NewIPRateLimiter creates a new IP-based rate limiter
// requestsPerMinute: number of requests allowed per minute
// burst: maximum burst size (allows brief spikes)
// Idle limiters are dropped until ctx is done.
func NewIPRateLimiter(ctx context.Context, requestsPerMinute, burst int) *IPRateLimiter {
	// Convert requests per minute to requests per second for rate.Limiter
	rps := rate.Limit(float64(requestsPerMinute) / 60.0)

	limiter := &IPRateLimiter{
		ips: make(map[string]*rate.Limiter),
		mu:  &sync.RWMutex{},
		r:   rps,
		b:   burst,
	}

	// Start cleanup goroutine
	go limiter.cleanupOldLimiters(ctx, 5*time.Minute)

	return limiter
}

// GetLimiter returns the rate limiter for the given IP
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.r, i.b)
		i.ips[ip] = limiter
	}

	return limiter
}

// cleanupOldLimiters removes limiters for IPs that haven't been used recently
func (i *IPRateLimiter) cleanupOldLimiters(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			i.cleanup()
		}
	}
}

func (i *IPRateLimiter) cleanup() {
	i.mu.Lock()
	defer i.mu.Unlock()
	for ip, limiter := range i.ips {
		// If limiter has full bucket (not used recently), remove it
		if limiter.Tokens() == float64(i.b) {
			delete(i.ips, ip)
		}
	}
}

// Len returns the number of tracked clients
func (i *IPRateLimiter) Len() int {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return len(i.ips)
}

// RateLimitWithHeadersMiddleware creates a rate limit middleware with informative headers
func RateLimitWithHeadersMiddleware(limiter *IPRateLimiter, requestsPerMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		ipLimiter := limiter.GetLimiter(ip)

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", requestsPerMinute))

		// Get current token count (available requests)
		tokens := ipLimiter.Tokens()
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%.0f", tokens))

		if !ipLimiter.Allow() {
			// Calculate retry-after time
			reservation := ipLimiter.Reserve()
			if reservation.OK() {
				retryAfter := int(reservation.Delay().Seconds())
				c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
				reservation.Cancel() // Don't actually consume the token
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded, please try again later",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
