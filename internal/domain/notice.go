package domain

import "time"

// NoticeKind classifies a user-visible message raised by a form controller.
type NoticeKind string

const (
	KindValidation  NoticeKind = "validation"
	KindAuth        NoticeKind = "auth"
	KindEmailExists NoticeKind = "email_exists"
	KindNetwork     NoticeKind = "network"
	KindServer      NoticeKind = "server"
	KindPayment     NoticeKind = "payment"
	KindLockout     NoticeKind = "lockout"
	KindSuccess     NoticeKind = "success"
)

// Notice is a displayable, recoverable condition owned by a single controller.
//
// Only one notice is shown per controller at a time; raising a new one
// replaces the previous. A zero ExpiresAt means the notice persists until
// it is cleared explicitly.
type Notice struct {
	Kind      NoticeKind `json:"kind"`
	Field     string     `json:"field,omitempty"`
	Message   string     `json:"message"`
	Attempt   int        `json:"attempt,omitempty"` // payment retry counter
	ExpiresAt time.Time  `json:"expires_at,omitzero"`
}

// Error implements error so rejected operations can return what they raised.
func (n *Notice) Error() string {
	return n.Message
}

// Active reports whether the notice is still visible at now.
func (n *Notice) Active(now time.Time) bool {
	if n == nil {
		return false
	}
	return n.ExpiresAt.IsZero() || now.Before(n.ExpiresAt)
}

// Persistent reports whether the notice has no expiry.
func (n *Notice) Persistent() bool {
	return n != nil && n.ExpiresAt.IsZero()
}

// NewNotice builds a notice that expires ttl after now. A non-positive ttl
// yields a persistent notice.
func NewNotice(kind NoticeKind, field, message string, now time.Time, ttl time.Duration) *Notice {
	n := &Notice{
		Kind:    kind,
		Field:   field,
		Message: message,
	}
	if ttl > 0 {
		n.ExpiresAt = now.Add(ttl)
	}
	return n
}
