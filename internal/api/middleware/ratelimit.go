package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/platform/metrics"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	// Name labels the limiter in metrics.
	Name() string
	// RetryAfter is the hint sent with a 429.
	RetryAfter() time.Duration
}

// MemoryLimiter is a per-key token bucket held in process memory. Buckets
// idle for longer than it takes them to refill completely are swept, since a
// fresh bucket would behave the same. State is per process; use RedisLimiter
// to share limits across instances.
type MemoryLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time

	mu        sync.Mutex
	buckets   map[string]*memoryBucket
	lastSweep time.Time
}

type memoryBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// minIdle keeps fast-refilling buckets from being swept on every request.
const minIdle = time.Minute

// NewMemoryLimiter creates a MemoryLimiter allowing rps events per second
// with the given burst.
func NewMemoryLimiter(rps float64, burst int) *MemoryLimiter {
	idle := 10 * time.Minute
	if rps > 0 && !math.IsInf(rps, 1) {
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > minIdle {
			idle = refill
		} else {
			idle = minIdle
		}
	}
	return &MemoryLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		idle:    idle,
		now:     time.Now,
		buckets: make(map[string]*memoryBucket),
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &memoryBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// sweep drops buckets unused for l.idle. Callers hold l.mu.
func (l *MemoryLimiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) >= l.idle {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// Len reports how many client buckets are held.
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Name implements Limiter.
func (l *MemoryLimiter) Name() string { return "memory" }

// RetryAfter implements Limiter.
func (l *MemoryLimiter) RetryAfter() time.Duration { return time.Second }

// RedisLimiter is a fixed-window counter shared by every instance that talks
// to the same Redis. Each window admits floor(rps*window)+burst requests.
type RedisLimiter struct {
	client  redis.Cmdable
	window  time.Duration
	allowed int64
	now     func() time.Time
}

// NewRedisLimiter creates a RedisLimiter. A window under one second is
// raised to one second.
func NewRedisLimiter(client redis.Cmdable, rps float64, burst int, window time.Duration) *RedisLimiter {
	if window < time.Second {
		window = time.Second
	}
	window = window.Truncate(time.Second)
	return &RedisLimiter{
		client:  client,
		window:  window,
		allowed: int64(rps*window.Seconds()) + int64(burst),
		now:     time.Now,
	}
}

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	windowSeconds := int64(l.window / time.Second)
	bucket := l.now().Unix() / windowSeconds
	redisKey := fmt.Sprintf("rl:%s:%d", key, bucket)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window+time.Second).Err(); err != nil {
			return false, fmt.Errorf("rate limit expiry: %w", err)
		}
	}
	return count <= l.allowed, nil
}

// Name implements Limiter.
func (l *RedisLimiter) Name() string { return "redis" }

// RetryAfter implements Limiter.
func (l *RedisLimiter) RetryAfter() time.Duration { return l.window }

// NewRateLimitMiddleware rejects clients over their limit with 429. Clients
// are keyed by remote IP, so chi's RealIP should run first. m may be nil.
func NewRateLimitMiddleware(limiter Limiter, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), "ip:"+clientIP(r))
			if err != nil {
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Rate limit check failed", err)
				return
			}

			if !allowed {
				if m != nil {
					m.RateLimitRejected.WithLabelValues(limiter.Name()).Inc()
				}
				w.Header().Set("Retry-After", strconv.Itoa(int(limiter.RetryAfter().Seconds())))
				shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Rate limit exceeded", nil,
					shared.WithElevatedLogLevel())
				return
			}

			if m != nil {
				m.RateLimitAllowed.WithLabelValues(limiter.Name()).Inc()
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}

// LimiterAttr describes a limiter for startup logs.
func LimiterAttr(l Limiter) slog.Attr {
	return slog.Group("rate_limit",
		slog.String("limiter", l.Name()),
		slog.Duration("retry_after", l.RetryAfter()))
}
