package csrf

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	a, err := GenerateToken()
	require.NoError(t, err)
	b, err := GenerateToken()
	require.NoError(t, err)

	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}

func TestValidateToken(t *testing.T) {
	assert.True(t, ValidateToken("abc", "abc"))
	assert.False(t, ValidateToken("abc", "abd"))
	assert.False(t, ValidateToken("", ""))
	assert.False(t, ValidateToken("abc", ""))
}

func TestValidateRequest(t *testing.T) {
	req := httptest.NewRequest("POST", "/api/auth/submit", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "tok"})
	assert.False(t, ValidateRequest(req), "header missing")

	req.Header.Set(HeaderName, "tok")
	assert.True(t, ValidateRequest(req))
}

func TestIsSafeMethod(t *testing.T) {
	assert.True(t, IsSafeMethod("GET"))
	assert.True(t, IsSafeMethod("HEAD"))
	assert.False(t, IsSafeMethod("POST"))
	assert.False(t, IsSafeMethod("DELETE"))
}

func TestEnsureToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/session", nil)
	token := EnsureToken(rec, req, 60, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, token, cookies[0].Value)
	assert.False(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)

	rec = httptest.NewRecorder()
	req.AddCookie(cookies[0])
	assert.Equal(t, token, EnsureToken(rec, req, 60, true))
	assert.Empty(t, rec.Result().Cookies(), "existing token is reused")
}
