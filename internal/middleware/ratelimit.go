package middleware

import (
	"context"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// rejectMessage is the body of a 429 response.
const rejectMessage = "Too many attempts. Please wait a moment and try again."

// maxTrackedAttempts caps the number of (client, form) buckets held at once.
const maxTrackedAttempts = 100000

// RateLimiter throttles credential form submissions. Each client IP gets a
// separate token bucket per form path, so failed logins do not use up the
// register budget and the reverse.
type RateLimiter struct {
	mu       sync.Mutex
	attempts map[attemptKey]*bucket
	rate     float64 // tokens per second
	burst    float64
	onReject func(r *http.Request)
	now      func() time.Time
}

type attemptKey struct {
	client string
	form   string
}

// bucket holds the tokens left at the time of the last submission.
type bucket struct {
	tokens float64
	at     time.Time
}

// level returns the tokens available at now without mutating b.
func (b *bucket) level(now time.Time, rate, burst float64) float64 {
	return math.Min(burst, b.tokens+now.Sub(b.at).Seconds()*rate)
}

// NewRateLimiter creates a limiter refilling at rate submissions per second
// up to burst.
func NewRateLimiter(rate float64, burst int) *RateLimiter {
	return &RateLimiter{
		attempts: make(map[attemptKey]*bucket),
		rate:     rate,
		burst:    float64(burst),
		now:      time.Now,
	}
}

// OnReject registers fn to be called for every rejected request.
func (rl *RateLimiter) OnReject(fn func(r *http.Request)) {
	rl.onReject = fn
}

// Handler counts every request against the (client IP, path) bucket and
// answers 429 with Retry-After once it is empty.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := attemptKey{client: realIP(r), form: r.URL.Path}

		remaining, wait, ok := rl.take(key)
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !ok {
			if rl.onReject != nil {
				rl.onReject(r)
			}
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			http.Error(w, rejectMessage, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// take spends one token from key's bucket. When the bucket is empty it
// reports how long until the next token.
func (rl *RateLimiter) take(key attemptKey) (remaining int, wait time.Duration, ok bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	b, found := rl.attempts[key]
	if !found {
		if len(rl.attempts) >= maxTrackedAttempts {
			return 0, rl.tokenInterval(1), false
		}
		b = &bucket{tokens: rl.burst, at: now}
		rl.attempts[key] = b
	}

	b.tokens = b.level(now, rl.rate, rl.burst)
	b.at = now
	if b.tokens < 1 {
		return 0, rl.tokenInterval(1 - b.tokens), false
	}
	b.tokens--
	return int(b.tokens), 0, true
}

func (rl *RateLimiter) tokenInterval(tokens float64) time.Duration {
	return time.Duration(tokens / rl.rate * float64(time.Second))
}

// StartCleanup runs cleanup every interval until the returned function is
// called.
func (rl *RateLimiter) StartCleanup(interval, maxIdle time.Duration) func() {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				rl.cleanup(maxIdle)
			}
		}
	}()
	return cancel
}

// cleanup forgets buckets that have refilled completely, since a fresh
// bucket behaves the same, and buckets idle for longer than maxIdle.
func (rl *RateLimiter) cleanup(maxIdle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, b := range rl.attempts {
		if b.level(now, rl.rate, rl.burst) >= rl.burst || now.Sub(b.at) > maxIdle {
			delete(rl.attempts, key)
		}
	}
}

// Len returns the number of tracked buckets.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.attempts)
}

// realIP returns the host part of RemoteAddr. Forwarded headers are only
// honoured when chi's RealIP middleware has already rewritten RemoteAddr.
func realIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
