package handler

import (
	"net/http"

	"github.com/DukeRupert/kebaikan/internal/session"
)

// CreateSession mounts a new session on the login page and sets its cookie.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	sess := h.store.Create()
	h.setSessionCookie(w, sess)
	writeJSON(w, http.StatusCreated, sess.View())
}

// GetSession returns the current view.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(*session.Session) error { return nil })
}

// DeleteSession closes the session and clears its cookie.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sess := h.currentSession(w, r)
	if sess == nil {
		return
	}
	h.store.Delete(sess.ID)
	h.setSessionCookie(w, nil)
	w.WriteHeader(http.StatusNoContent)
}

type connectivityRequest struct {
	Online bool `json:"online"`
}

// SetConnectivity relays the browser's online/offline events.
func (h *Handler) SetConnectivity(w http.ResponseWriter, r *http.Request) {
	var req connectivityRequest
	h.respond(w, r, func(sess *session.Session) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		if sess.Connectivity().Set(req.Online) {
			h.logger.Debug("connectivity changed", "session_id", sess.ID, "online", req.Online)
		}
		return nil
	})
}

type navigateRequest struct {
	Page session.Page `json:"page"`
}

// Navigate opens a top-level page.
func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req navigateRequest
	h.respond(w, r, func(sess *session.Session) error {
		if err := decode(w, r, &req); err != nil {
			return err
		}
		return sess.Navigate(req.Page)
	})
}

// Logout signs the visitor out, keeping the session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(sess *session.Session) error {
		sess.Logout()
		return nil
	})
}
