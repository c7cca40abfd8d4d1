// Package session owns the per-visitor state of the demo front end: the
// current page, the sign-in flag and the controllers mounted for it.
package session

import "time"

const (
	// CookieName is the name of the cookie that stores the session ID.
	CookieName = "kebaikan_session"

	// CookiePath ensures the cookie is sent with all requests.
	CookiePath = "/"

	// DefaultIdleTimeout is how long an untouched session survives.
	// This should match SESSION_IDLE_TIMEOUT in the config.
	DefaultIdleTimeout = 30 * time.Minute
)

// Page is a top-level view of the front end.
type Page string

const (
	PageLogin    Page = "login"
	PageHome     Page = "home"
	PageDonation Page = "donation" // campaign detail
	PageNews     Page = "news"
	PageStories  Page = "stories"
	PagePayment  Page = "payment"
)

// navigable reports whether p may be opened directly from the navbar.
func navigable(p Page) bool {
	switch p {
	case PageHome, PageDonation, PageNews, PageStories:
		return true
	}
	return false
}
