package donation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseInteger(t *testing.T) {
	tests := []struct {
		in     string
		want   int64
		wantOK bool
	}{
		{"1000", 1000, true},
		{"  2500", 2500, true},
		{"+750", 750, true},
		{"-5000", -5000, true},
		{"12.9", 12, true},
		{"1e6", 1, true},
		{"100abc", 100, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"Rp 1000", 0, false},
		{"99999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseInteger(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "Please enter a valid donation amount"},
		{"  ", "Please enter a valid donation amount"},
		{"ten thousand", "Please enter a valid donation amount"},
		{"-1000", "Donation amount cannot be negative"},
		{"0", "Minimum donation amount is Rp 1,000"},
		{"500", "Minimum donation amount is Rp 1,000"},
		{"999", "Minimum donation amount is Rp 1,000"},
		{"1000", ""},
		{"50000", ""},
		{"1500.75", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, checkAmount(tt.in))
		})
	}
}

// Amount validity is exactly "parses and is at least the minimum".
func TestAmountValid_MatchesParse(t *testing.T) {
	inputs := []string{"", "0", "1", "-1", "999", "1000", "1001", " 1000", "1000x", "x1000",
		"-999999", "500000", "+1000", "00001000", "9223372036854775807", "9223372036854775808"}

	for _, in := range inputs {
		n, ok := parseInteger(in)
		assert.Equal(t, ok && n >= 1000, AmountValid(in), "input %q", in)
	}
}

func TestCheckMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want string
	}{
		{"empty", "", ""},
		{"kind words", "Semoga cepat pulih", ""},
		{"exactly 200", strings.Repeat("a", 200), ""},
		{"201 chars", strings.Repeat("a", 201), "Message cannot exceed 200 characters"},
		{"200 multibyte runes", strings.Repeat("é", 200), ""},
		{"spam", "this is spam", "Message contains inappropriate content"},
		{"upper case scam", "Not a SCAM", "Message contains inappropriate content"},
		{"embedded fake", "fakeness", "Message contains inappropriate content"},
		{"length checked first", strings.Repeat("spam", 51), "Message cannot exceed 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, checkMessage(tt.msg))
		})
	}
}

// Message validity fails iff the message is too long or contains a
// denylisted word in any case.
func TestMessageValid_Property(t *testing.T) {
	inputs := []string{"", "hello", "SpAm", "scammer", "Fake news", "faith", "sc am",
		strings.Repeat("x", 199), strings.Repeat("x", 200), strings.Repeat("x", 201)}

	for _, in := range inputs {
		lower := strings.ToLower(in)
		bad := len([]rune(in)) > 200 ||
			strings.Contains(lower, "spam") ||
			strings.Contains(lower, "scam") ||
			strings.Contains(lower, "fake")
		assert.Equal(t, !bad, MessageValid(in), "input %q", in)
	}
}

func TestSimulatedGateway(t *testing.T) {
	g, err := NewSimulatedGateway(func() float64 { return 0.1 }, 0.3)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeFailure, g.Pay(Charge{}))
	assert.InDelta(t, 0.3, g.FailureRate(), 1e-9)

	g, err = NewSimulatedGateway(func() float64 { return 0.5 }, 0.3)
	assert.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, g.Pay(Charge{}))

	_, err = NewSimulatedGateway(func() float64 { return 0 }, 1.5)
	assert.Error(t, err)
}
