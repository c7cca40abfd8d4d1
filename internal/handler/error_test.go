package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DukeRupert/kebaikan/internal/domain"
)

// =============================================================================
// Error Response Tests - Security Focus
// =============================================================================

func TestErrorResponse_DoesNotExposeOperationName(t *testing.T) {
	err := domain.Invalid("donation.select_method", "unknown payment method \"cash\"")

	req := httptest.NewRequest("POST", "/api/donation/method", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, discardLogger(), err)

	body := rec.Body.String()
	if strings.Contains(body, "donation.select_method") {
		t.Errorf("response exposes internal operation name: %s", body)
	}
	if !strings.Contains(body, `"code":"invalid"`) {
		t.Errorf("response should carry the error code, got: %s", body)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rec.Code)
	}
}

func TestInternalErrorResponse_HidesDetails(t *testing.T) {
	req := httptest.NewRequest("GET", "/api/session", nil)
	rec := httptest.NewRecorder()
	InternalErrorResponse(rec, req, discardLogger(), errors.New("clock went backwards"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "clock went backwards") {
		t.Errorf("response exposes underlying error: %s", rec.Body.String())
	}
}

func TestErrorResponse_PlainTextOutsideAPI(t *testing.T) {
	req := httptest.NewRequest("GET", "/missing", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	NotFoundResponse(rec, req, discardLogger())

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Errorf("expected plain text, got %q", got)
	}
}

// =============================================================================
// Status Mapping Tests
// =============================================================================

func TestErrorCodeToHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{domain.EINVALID, http.StatusBadRequest},
		{domain.EUNAUTHORIZED, http.StatusUnauthorized},
		{domain.EFORBIDDEN, http.StatusForbidden},
		{domain.ENOTFOUND, http.StatusNotFound},
		{domain.ECONFLICT, http.StatusConflict},
		{domain.EBUSY, http.StatusConflict},
		{domain.ERATELIMIT, http.StatusTooManyRequests},
		{domain.EINTERNAL, http.StatusInternalServerError},
		{"unknown", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := ErrorCodeToHTTPStatus(tt.code); got != tt.want {
				t.Errorf("ErrorCodeToHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}

func TestNoticeStatus(t *testing.T) {
	tests := []struct {
		kind domain.NoticeKind
		want int
	}{
		{domain.KindValidation, http.StatusUnprocessableEntity},
		{domain.KindAuth, http.StatusUnprocessableEntity},
		{domain.KindPayment, http.StatusUnprocessableEntity},
		{domain.KindLockout, http.StatusLocked},
		{domain.KindNetwork, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			if got := NoticeStatus(tt.kind); got != tt.want {
				t.Errorf("NoticeStatus(%q) = %d, want %d", tt.kind, got, tt.want)
			}
		})
	}
}

func TestErrorResponse_WrappedNotice(t *testing.T) {
	n := domain.NewNotice(domain.KindValidation, "amount", "Minimum donation amount is Rp 1,000", epoch, 5*time.Second)
	err := errors.Join(errors.New("advance"), n)

	req := httptest.NewRequest("POST", "/api/donation/advance", nil)
	rec := httptest.NewRecorder()
	ErrorResponse(rec, req, discardLogger(), err)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"kind":"validation"`, `"field":"amount"`, "Minimum donation amount is Rp 1,000"} {
		if !strings.Contains(body, want) {
			t.Errorf("body should contain %q, got: %s", want, body)
		}
	}
}
