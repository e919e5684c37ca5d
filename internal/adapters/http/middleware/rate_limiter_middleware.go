// Package middleware disponibiliza middlewares HTTP específicos da aplicação.
package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/adapters/http/response"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/domain"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/core/ports"
	"github.com/Ball1992/project-management-with-nextjs-sub002/internal/metrics"
)

const maxUserAgentLength = 50

type Options struct {
	// Skip desliga o rate limiting (APP_ENV=development).
	Skip   bool
	Logger *zap.SugaredLogger
}

type decideFunc func(r *http.Request, clientID string) (domain.Decision, error)

// NewRateLimiterMiddleware aplica a política resolvida pelo path da requisição.
func NewRateLimiterMiddleware(limiter ports.RateLimiter, opts Options) func(http.Handler) http.Handler {
	return rateLimit(limiter, opts, func(r *http.Request, clientID string) (domain.Decision, error) {
		return limiter.Allow(r.Context(), domain.RateLimitRequest{Path: r.URL.Path, ClientID: clientID})
	})
}

// NewNamedRateLimiterMiddleware aplica uma política especial (ex.: admin-login).
func NewNamedRateLimiterMiddleware(limiter ports.RateLimiter, name string, opts Options) func(http.Handler) http.Handler {
	return rateLimit(limiter, opts, func(r *http.Request, clientID string) (domain.Decision, error) {
		return limiter.AllowNamed(r.Context(), name, clientID)
	})
}

func rateLimit(limiter ports.RateLimiter, opts Options, decide decideFunc) func(http.Handler) http.Handler {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limiter == nil || opts.Skip {
				next.ServeHTTP(w, r)
				return
			}

			clientID := ClientID(r)
			decision, err := decide(r, clientID)
			if err != nil && !domain.IsRateLimitedError(err) {
				metrics.RateLimitDecisions.WithLabelValues("unresolved", metrics.OutcomeError).Inc()
				log.Errorw("rate limiter failed, allowing request", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			writeRateLimitHeaders(w, decision)

			if !decision.Allowed {
				retryAfter := retryAfterSeconds(decision.RetryAfter)
				log.Warnw("rate limit exceeded",
					"key", decision.Key,
					"path", r.URL.Path,
					"count", decision.Count,
					"limit", decision.Policy.Requests,
				)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.Header().Set("X-RateLimit-Remaining", "0")
				response.TooManyRequests(w, decision.Policy.Message, retryAfter)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientID identifica o cliente por IP + os primeiros 50 caracteres do user-agent.
func ClientID(r *http.Request) string {
	ua := r.Header.Get("User-Agent")
	if len(ua) > maxUserAgentLength {
		ua = ua[:maxUserAgentLength]
	}
	return extractIP(r) + ":" + ua
}

func extractIP(r *http.Request) string {
	xForwardedFor := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xForwardedFor != "" {
		parts := strings.Split(xForwardedFor, ",")
		if first := strings.TrimSpace(parts[0]); first != "" {
			return first
		}
	}

	xRealIP := strings.TrimSpace(r.Header.Get("X-Real-IP"))
	if xRealIP != "" {
		return xRealIP
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}

	return host
}

func writeRateLimitHeaders(w http.ResponseWriter, d domain.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Policy.Requests))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetAt.Unix(), 10))
}

func retryAfterSeconds(d time.Duration) int {
	seconds := int(math.Ceil(d.Seconds()))
	if seconds < 1 {
		return 1
	}
	return seconds
}
