package security

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/receptar/receptar/internal/ports/outbound"
)

// LoginRateLimiter throttles authentication attempts per client IP.
// Idle limiters are evicted so the map does not grow without bound.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	rate     rate.Limit
	burst    int
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginRateLimiter allows r events per second with the given burst
func NewLoginRateLimiter(r rate.Limit, burst int) *LoginRateLimiter {
	l := &LoginRateLimiter{
		limiters: make(map[string]*ipLimiter),
		rate:     r,
		burst:    burst,
	}
	go l.cleanup()
	return l
}

// Allow reports whether a request from the given IP may proceed
func (l *LoginRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.limiters[ip]
	if !ok {
		entry = &ipLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter.Allow()
}

// Middleware rejects rate-limited requests with 429
func (l *LoginRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
			return
		}
		c.Next()
	}
}

func (l *LoginRateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		for ip, entry := range l.limiters {
			if time.Since(entry.lastSeen) > 10*time.Minute {
				delete(l.limiters, ip)
			}
		}
		l.mu.Unlock()
	}
}

// LoginLockout counts failed login attempts per client IP in the shared
// cache and locks the IP out once the threshold is crossed. Counters
// live in redis so every instance sees the same attempt history.
type LoginLockout struct {
	cache     outbound.CacheRepository
	threshold int64
	window    time.Duration
	duration  time.Duration
	logger    *zap.Logger
}

// NewLoginLockout locks an IP for duration after threshold failures
// inside the counting window
func NewLoginLockout(cache outbound.CacheRepository, threshold int, window, duration time.Duration, logger *zap.Logger) *LoginLockout {
	return &LoginLockout{
		cache:     cache,
		threshold: int64(threshold),
		window:    window,
		duration:  duration,
		logger:    logger.Named("login-lockout"),
	}
}

// Locked reports whether the IP is currently locked out. Cache trouble
// must not lock everyone out, so errors read as unlocked.
func (l *LoginLockout) Locked(ctx context.Context, ip string) bool {
	val, err := l.cache.Get(ctx, lockoutKey(ip))
	if err != nil {
		return false
	}
	return val != nil
}

// RecordFailure counts one failed attempt; crossing the threshold locks
// the IP for the configured duration.
func (l *LoginLockout) RecordFailure(ctx context.Context, ip string) {
	count, err := l.cache.Increment(ctx, attemptsKey(ip), l.window)
	if err != nil {
		l.logger.Warn("failed to count login attempt", zap.Error(err))
		return
	}
	if count >= l.threshold {
		if err := l.cache.Set(ctx, lockoutKey(ip), []byte("1"), l.duration); err != nil {
			l.logger.Warn("failed to set login lockout", zap.Error(err))
			return
		}
		l.logger.Warn("client locked out after repeated login failures",
			zap.String("ip", ip),
			zap.Int64("attempts", count),
		)
	}
}

// Clear forgets the attempt history after a successful login
func (l *LoginLockout) Clear(ctx context.Context, ip string) {
	if err := l.cache.Delete(ctx, attemptsKey(ip)); err != nil {
		l.logger.Debug("failed to clear login attempts", zap.Error(err))
	}
}

// Middleware rejects locked-out clients before credentials are checked
func (l *LoginLockout) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l.Locked(c.Request.Context(), c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many failed attempts, try again later"})
			return
		}
		c.Next()
	}
}

func attemptsKey(ip string) string { return "login:attempts:" + ip }
func lockoutKey(ip string) string  { return "login:lockout:" + ip }
