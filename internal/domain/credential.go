package domain

// Mode selects between the login and signup variants of the credential form.
type Mode string

const (
	ModeLogin  Mode = "login"
	ModeSignup Mode = "signup"
)

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == ModeSignup {
		return ModeLogin
	}
	return ModeSignup
}

// Credential form field names.
const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

// CredentialFields lists the form fields in submission order.
var CredentialFields = []string{FieldEmail, FieldPassword, FieldName}

// IsCredentialField reports whether name is a known credential field.
func IsCredentialField(name string) bool {
	switch name {
	case FieldEmail, FieldPassword, FieldName:
		return true
	}
	return false
}
