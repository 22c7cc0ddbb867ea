package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bagdasarian/team-credits/internal/domain"
	"github.com/bagdasarian/team-credits/internal/metrics"
	"github.com/bagdasarian/team-credits/internal/service"
	"github.com/sirupsen/logrus"
)

type contextKey struct{}

var identityKey = contextKey{}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// RateLimiter - счетчик запросов на менеджера
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	RetryAfter(ctx context.Context, key string) time.Duration
	Limit() int
}

// RequireAuth проверяет bearer-токен и кладет личность менеджера в контекст
func (h *Handler) RequireAuth(verifier service.IdentityVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				h.handleError(w, domain.NewUnauthorizedError("Invalid authentication scheme"))
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				h.handleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// RateLimit ограничивает запросы аутентифицированного менеджера; при сбое Redis запрос пропускается
func (h *Handler) RateLimit(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			allowed, err := limiter.Allow(r.Context(), identity.Email)
			if err != nil {
				h.log.WithError(err).Warn("rate limiter unavailable")
			}
			if !allowed {
				retryAfter := limiter.RetryAfter(r.Context(), identity.Email)
				w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
				w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", limiter.Limit()))
				h.handleError(w, domain.ErrRateLimited)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORS разрешает запросы с любых источников
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
			if headers := r.Header.Get("Access-Control-Request-Headers"); headers != "" {
				w.Header().Set("Access-Control-Allow-Headers", headers)
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument пишет access-лог и метрики запроса.
// Шаблон маршрута известен только после того, как ServeMux выбрал обработчик.
func Instrument(m *metrics.Metrics, log logrus.FieldLogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		duration := time.Since(start)
		m.RecordHTTPRequest(r.Method, path, rec.status, duration)

		log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   rec.status,
			"duration": duration,
		}).Debug("request handled")
	})
}
