package handler

import (
	"net/http"

	"github.com/DukeRupert/kebaikan/internal/session"
)

type fieldRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// UpdateField stores a credential field as the visitor types.
func (h *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	h.respond(w, r, func(sess *session.Session) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		return sess.Form().UpdateField(req.Field, req.Value)
	})
}

// BlurField validates a credential field when it loses focus.
func (h *Handler) BlurField(w http.ResponseWriter, r *http.Request) {
	var req fieldRequest
	h.respond(w, r, func(sess *session.Session) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		return sess.Form().BlurField(req.Field)
	})
}

// Submit starts the simulated sign-in. The outcome shows up in later
// session views once the delay has elapsed.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) error {
		return sess.Form().Submit()
	})
}

// SwitchMode toggles between login and signup.
func (h *Handler) SwitchMode(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) error {
		return sess.Form().SwitchMode()
	})
}

// SignInWithGoogle signs in with the demo Google account.
func (h *Handler) SignInWithGoogle(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) error {
		return sess.Form().SignInWithGoogle()
	})
}
