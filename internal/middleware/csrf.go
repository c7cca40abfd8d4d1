package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kebaikan/internal/csrf"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/handler"
)

// CSRFMiddleware enforces the double-submit token on state-changing
// requests. Safe requests are handed a token cookie when they lack one.
type CSRFMiddleware struct {
	logger   *slog.Logger
	maxAge   int
	isSecure bool
	exempt   map[string]bool
}

// NewCSRFMiddleware creates the middleware. Requests matching an exempt
// "METHOD /path" pair skip the check but still receive a token.
func NewCSRFMiddleware(logger *slog.Logger, maxAge int, isSecure bool, exempt ...string) *CSRFMiddleware {
	m := &CSRFMiddleware{
		logger:   logger,
		maxAge:   maxAge,
		isSecure: isSecure,
		exempt:   make(map[string]bool, len(exempt)),
	}
	for _, e := range exempt {
		m.exempt[e] = true
	}
	return m
}

// Handler returns the middleware.
func (m *CSRFMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if csrf.IsSafeMethod(r.Method) || m.exempt[r.Method+" "+r.URL.Path] {
			csrf.EnsureToken(w, r, m.maxAge, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		if !csrf.ValidateRequest(r) {
			m.logger.Warn("csrf check failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", getClientIP(r),
			)
			err := domain.Forbidden("", "Missing or invalid "+csrf.HeaderName+" header")
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}
