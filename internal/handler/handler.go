// Package handler contains the JSON HTTP handlers that drive the donation
// front end's controllers.
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/session"
)

// maxBodyBytes bounds request bodies. Every payload is a handful of fields.
const maxBodyBytes = 1 << 16

// Handler serves the /api routes.
//
// Dependencies:
// - store: live visitor sessions
// - catalog: the campaign list
// - logger: structured logging for request handling
// - isSecure: whether to set the Secure flag on cookies (true in production)
type Handler struct {
	store       *session.Store
	catalog     *catalog.Catalog
	logger      *slog.Logger
	isSecure    bool
	idleTimeout time.Duration
}

// New creates a Handler.
func New(store *session.Store, cat *catalog.Catalog, logger *slog.Logger, isSecure bool, idleTimeout time.Duration) *Handler {
	if idleTimeout <= 0 {
		idleTimeout = session.DefaultIdleTimeout
	}
	return &Handler{
		store:       store,
		catalog:     cat,
		logger:      logger,
		isSecure:    isSecure,
		idleTimeout: idleTimeout,
	}
}

// =============================================================================
// Route Registration
// =============================================================================

// RegisterRoutes registers every API route with the provided mux.
//
// requireSession rejects requests without a live session; requireLogin
// additionally rejects visitors who have not signed in.
func (h *Handler) RegisterRoutes(mux *http.ServeMux, requireSession, requireLogin func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /health", h.Health)

	// Sessions
	mux.HandleFunc("POST /api/sessions", h.CreateSession)
	mux.Handle("GET /api/session", requireSession(http.HandlerFunc(h.GetSession)))
	mux.Handle("DELETE /api/session", requireSession(http.HandlerFunc(h.DeleteSession)))
	mux.Handle("POST /api/connectivity", requireSession(http.HandlerFunc(h.SetConnectivity)))
	mux.Handle("POST /api/navigate", requireLogin(http.HandlerFunc(h.Navigate)))
	mux.Handle("POST /api/logout", requireLogin(http.HandlerFunc(h.Logout)))

	// Credential form
	mux.Handle("POST /api/auth/field", requireSession(http.HandlerFunc(h.UpdateField)))
	mux.Handle("POST /api/auth/blur", requireSession(http.HandlerFunc(h.BlurField)))
	mux.Handle("POST /api/auth/submit", requireSession(http.HandlerFunc(h.Submit)))
	mux.Handle("POST /api/auth/mode", requireSession(http.HandlerFunc(h.SwitchMode)))
	mux.Handle("POST /api/auth/google", requireSession(http.HandlerFunc(h.SignInWithGoogle)))

	// Catalog
	mux.HandleFunc("GET /api/categories", h.ListCategories)
	mux.HandleFunc("GET /api/campaigns", h.ListCampaigns)
	mux.HandleFunc("GET /api/campaigns/{id}", h.GetCampaign)
	mux.Handle("POST /api/campaigns/{id}/select", requireLogin(http.HandlerFunc(h.SelectCampaign)))
	mux.Handle("POST /api/campaigns/{id}/donate", requireLogin(http.HandlerFunc(h.StartDonation)))

	// Payment wizard
	mux.Handle("POST /api/donation/quick", requireLogin(http.HandlerFunc(h.SelectQuickAmount)))
	mux.Handle("POST /api/donation/amount", requireLogin(http.HandlerFunc(h.SetAmount)))
	mux.Handle("POST /api/donation/message", requireLogin(http.HandlerFunc(h.SetMessage)))
	mux.Handle("POST /api/donation/anonymous", requireLogin(http.HandlerFunc(h.SetAnonymous)))
	mux.Handle("POST /api/donation/method", requireLogin(http.HandlerFunc(h.SelectMethod)))
	mux.Handle("POST /api/donation/blur", requireLogin(http.HandlerFunc(h.BlurDonationField)))
	mux.Handle("POST /api/donation/advance", requireLogin(http.HandlerFunc(h.Advance)))
	mux.Handle("POST /api/donation/back", requireLogin(http.HandlerFunc(h.GoBack)))
	mux.Handle("POST /api/donation/reset", requireLogin(http.HandlerFunc(h.Reset)))
	mux.Handle("POST /api/donation/done", requireLogin(http.HandlerFunc(h.ViewOtherDonations)))
}

// Health reports that the process is serving.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// Helpers
// =============================================================================

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	const op = "handler.decode"
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.Invalid(op, fmt.Sprintf("malformed request body: %v", err))
	}
	return nil
}

// currentSession returns the session placed in the context by middleware.
func (h *Handler) currentSession(w http.ResponseWriter, r *http.Request) *session.Session {
	sess := session.FromRequest(r)
	if sess == nil {
		h.logger.Error("handler called without a session", "path", r.URL.Path)
		UnauthorizedResponse(w, r, h.logger)
	}
	return sess
}

// respond runs op against the session and answers with the resulting view.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, op func(sess *session.Session) error) {
	sess := h.currentSession(w, r)
	if sess == nil {
		return
	}
	if err := op(sess); err != nil {
		ErrorResponse(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.View())
}

// setSessionCookie writes the session cookie. A nil sess clears it.
func (h *Handler) setSessionCookie(w http.ResponseWriter, sess *session.Session) {
	c := &http.Cookie{
		Name:     session.CookieName,
		Path:     session.CookiePath,
		HttpOnly: true,
		Secure:   h.isSecure,
		SameSite: http.SameSiteLaxMode,
	}
	if sess == nil {
		c.MaxAge = -1
	} else {
		c.Value = sess.ID.String()
		c.MaxAge = int(h.idleTimeout.Seconds())
	}
	http.SetCookie(w, c)
}
