package server

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	wardrobe "github.com/FrenchMajesty/wardrobe-vision"
)

// StaticTokenVerifier accepts a single pre-shared API token. An empty
// configured token rejects everything rather than allowing everything.
type StaticTokenVerifier struct {
	Token string
}

var _ wardrobe.TokenVerifier = StaticTokenVerifier{}

func (v StaticTokenVerifier) VerifyToken(token string) *wardrobe.UserIdentity {
	if v.Token == "" || token != v.Token {
		return nil
	}
	return &wardrobe.UserIdentity{ID: "api-client"}
}

// tokenBucket tracks one client's remaining request budget.
type tokenBucket struct {
	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// RateLimiter is a per-client token bucket limiter.
type RateLimiter struct {
	buckets sync.Map // client key -> *tokenBucket
	rate    float64  // tokens per second
	burst   int
}

// NewRateLimiter creates a limiter allowing ratePerMinute sustained
// requests with the given burst capacity per client.
func NewRateLimiter(ratePerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  float64(ratePerMinute) / 60.0,
		burst: burst,
	}
}

// Allow reports whether the client identified by key may proceed.
func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	value, _ := rl.buckets.LoadOrStore(key, &tokenBucket{
		tokens:     float64(rl.burst),
		lastRefill: now,
	})
	bucket := value.(*tokenBucket)

	bucket.mu.Lock()
	defer bucket.mu.Unlock()

	elapsed := now.Sub(bucket.lastRefill).Seconds()
	bucket.tokens += elapsed * rl.rate
	if bucket.tokens > float64(rl.burst) {
		bucket.tokens = float64(rl.burst)
	}
	bucket.lastRefill = now

	if bucket.tokens >= 1.0 {
		bucket.tokens -= 1.0
		return true
	}
	return false
}

// Cleanup drops buckets idle longer than maxIdle. Deployments run this
// periodically to bound memory.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) {
	now := time.Now()
	rl.buckets.Range(func(key, value any) bool {
		bucket := value.(*tokenBucket)
		bucket.mu.Lock()
		idle := now.Sub(bucket.lastRefill) > maxIdle
		bucket.mu.Unlock()
		if idle {
			rl.buckets.Delete(key)
		}
		return true
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow(clientKey(r)) {
			s.logger.Warn("rate limited", zap.String("client", clientKey(r)))
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authMiddleware requires a valid bearer token on every /api route.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.verifier == nil {
			writeError(w, http.StatusUnauthorized, "authentication is not configured")
			return
		}

		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		identity := s.verifier.VerifyToken(token)
		if identity == nil {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler",
					zap.Any("panic", rec),
					zap.String("path", r.URL.Path))
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("duration", time.Since(start)))
	})
}
