package donation

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/domain"
)

// Donation form field names, used as Notice.Field.
const (
	FieldAmount  = "amount"
	FieldMessage = "message"
	FieldMethod  = "method"
)

// denylist holds substrings a donor message may not contain, compared
// after case folding.
var denylist = []string{"spam", "scam", "fake"}

// parseInteger reads a leading base-10 integer the way a browser's
// parseInt does: leading whitespace and one sign are accepted and anything
// after the digits is ignored. ok is false when no digit leads the text or
// the value does not fit in an int64.
func parseInteger(text string) (n int64, ok bool) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		d := int64(s[digits] - '0')
		if n > (math.MaxInt64-d)/10 {
			return 0, false
		}
		n = n*10 + d
		digits++
	}
	if digits == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// checkAmount returns the message shown for an unacceptable amount, or "".
func checkAmount(text string) string {
	n, ok := parseInteger(text)
	if strings.TrimSpace(text) == "" || !ok {
		return "Please enter a valid donation amount"
	}
	if n < 0 {
		return "Donation amount cannot be negative"
	}
	if n < domain.MinimumDonation {
		return "Minimum donation amount is " + catalog.FormatRupiahEnglish(domain.MinimumDonation)
	}
	return ""
}

// checkMessage returns the message shown for an unacceptable donor
// message, or "".
func checkMessage(msg string) string {
	if utf8.RuneCountInString(msg) > domain.MaxMessageLength {
		return "Message cannot exceed 200 characters"
	}
	folded := cases.Fold().String(msg)
	for _, word := range denylist {
		if strings.Contains(folded, word) {
			return "Message contains inappropriate content"
		}
	}
	return ""
}

// AmountValid reports whether text parses to an acceptable donation.
func AmountValid(text string) bool {
	return checkAmount(text) == ""
}

// MessageValid reports whether msg is an acceptable donor message.
func MessageValid(msg string) bool {
	return checkMessage(msg) == ""
}
