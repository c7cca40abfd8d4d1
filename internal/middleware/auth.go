// Package middleware contains HTTP middleware for the kebaikan server.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/handler"
	"github.com/DukeRupert/kebaikan/internal/session"
)

// =============================================================================
// Session Middleware
// =============================================================================

// SessionMiddleware loads visitor sessions from the session cookie.
//
// Create one instance and use its methods as middleware.
type SessionMiddleware struct {
	store    *session.Store
	logger   *slog.Logger
	isSecure bool // Whether to set Secure flag on cookies (true in production)
}

// NewSessionMiddleware creates a new SessionMiddleware.
func NewSessionMiddleware(store *session.Store, logger *slog.Logger, isSecure bool) *SessionMiddleware {
	return &SessionMiddleware{
		store:    store,
		logger:   logger,
		isSecure: isSecure,
	}
}

// WithSession attempts to load the session named by the cookie and store it
// in the request context. It always continues to the next handler; a stale
// cookie is cleared.
//
// The session can be retrieved in handlers using:
//
//	sess := session.FromRequest(r)
func (m *SessionMiddleware) WithSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		sess, err := m.store.Lookup(cookie.Value)
		if err != nil {
			clearSessionCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
	})
}

// RequireSession rejects requests that carry no live session.
//
// IMPORTANT: This middleware must be used AFTER WithSession in the chain.
func (m *SessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromRequest(r) == nil {
			err := domain.Unauthorized("", "No active session. Create one with POST /api/sessions.")
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireLogin rejects requests from visitors who have not signed in.
// It implies RequireSession.
func (m *SessionMiddleware) RequireLogin(next http.Handler) http.Handler {
	return m.RequireSession(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromRequest(r).LoggedIn() {
			err := domain.Unauthorized("", "Please sign in first")
			handler.ErrorResponse(w, r, m.logger, err)
			return
		}
		next.ServeHTTP(w, r)
	}))
}

// clearSessionCookie removes the session cookie from the client.
func clearSessionCookie(w http.ResponseWriter, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     session.CookieName,
		Value:    "",
		Path:     session.CookiePath,
		MaxAge:   -1, // Delete immediately
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// =============================================================================
// Middleware Stack Helpers
// =============================================================================

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	stack := Stack(logging.Handler, sessions.WithSession)
//	server.Handler = stack(mux)
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
