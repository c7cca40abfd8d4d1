// Package csrf protects the session API with the double-submit cookie
// pattern.
//
// The server sets a random token in a cookie that the front end can read.
// Every state-changing request must echo that token in the X-CSRF-Token
// header. A cross-site page can make the browser send the cookie but cannot
// read it, so it cannot produce the header.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"
)

const (
	// CookieName is the name of the CSRF token cookie.
	CookieName = "kebaikan_csrf"

	// HeaderName carries the echoed token on unsafe requests.
	HeaderName = "X-CSRF-Token"

	// TokenLength is the number of random bytes for the token (32 bytes = 256 bits).
	TokenLength = 32
)

// GenerateToken returns 32 random bytes, base64 URL-encoded.
func GenerateToken() (string, error) {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// MustGenerateToken generates a token or panics.
func MustGenerateToken() string {
	token, err := GenerateToken()
	if err != nil {
		panic("csrf: failed to generate token: " + err.Error())
	}
	return token
}

// ValidateToken compares the cookie token with the echoed token in
// constant time.
func ValidateToken(cookieToken, headerToken string) bool {
	if cookieToken == "" || headerToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) == 1
}

// ValidateRequest reports whether the request's header matches its cookie.
func ValidateRequest(r *http.Request) bool {
	return ValidateToken(TokenFromCookie(r), r.Header.Get(HeaderName))
}

// IsSafeMethod reports whether the method cannot change state.
func IsSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// SetCookie writes the token cookie. It is readable by scripts so the
// front end can echo it; maxAge is in seconds.
func SetCookie(w http.ResponseWriter, token string, maxAge int, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: false,
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFromCookie returns the token cookie's value, or "".
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// EnsureToken returns the request's token, issuing a new cookie when the
// request carries none.
func EnsureToken(w http.ResponseWriter, r *http.Request, maxAge int, isSecure bool) string {
	if token := TokenFromCookie(r); token != "" {
		return token
	}
	return RefreshToken(w, maxAge, isSecure)
}

// RefreshToken issues a new token cookie.
func RefreshToken(w http.ResponseWriter, maxAge int, isSecure bool) string {
	token := MustGenerateToken()
	SetCookie(w, token, maxAge, isSecure)
	return token
}
