package session

import (
	"context"
	"net/http"
)

type contextKey string

const sessionContextKey contextKey = "session"

// WithSession stores sess in the context.
func WithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// FromContext returns the session stored by WithSession, or nil.
func FromContext(ctx context.Context) *Session {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	if !ok {
		return nil
	}
	return sess
}

// FromRequest is FromContext on the request's context.
func FromRequest(r *http.Request) *Session {
	return FromContext(r.Context())
}
