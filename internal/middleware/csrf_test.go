package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DukeRupert/kebaikan/internal/csrf"
)

func csrfHandler() http.Handler {
	mw := NewCSRFMiddleware(discardLogger(), 1800, false, "POST /api/sessions")
	return mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRF_SafeMethodIssuesToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, httptest.NewRequest("GET", "/api/campaigns", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == csrf.CookieName && c.Value != "" && c.MaxAge == 1800 {
			found = true
		}
	}
	if !found {
		t.Error("expected a csrf cookie to be issued")
	}
}

func TestCSRF_ExemptRoute(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfHandler().ServeHTTP(rec, httptest.NewRequest("POST", "/api/sessions", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
}

func TestCSRF_UnsafeMethod(t *testing.T) {
	tests := []struct {
		name     string
		cookie   string
		header   string
		wantCode int
	}{
		{"no token", "", "", http.StatusForbidden},
		{"header only", "", "tok", http.StatusForbidden},
		{"mismatch", "tok", "other", http.StatusForbidden},
		{"match", "tok", "tok", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/auth/submit", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: tt.cookie})
			}
			if tt.header != "" {
				req.Header.Set(csrf.HeaderName, tt.header)
			}
			rec := httptest.NewRecorder()
			csrfHandler().ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("expected status %d, got %d", tt.wantCode, rec.Code)
			}
			if tt.wantCode == http.StatusForbidden && !strings.Contains(rec.Body.String(), `"code":"forbidden"`) {
				t.Errorf("expected forbidden JSON error, got: %s", rec.Body.String())
			}
		})
	}
}
