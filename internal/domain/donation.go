// Package domain contains the types shared by the form controllers, the
// catalog and the HTTP layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Campaign is the opaque descriptor carried from the catalog into the
// donation flow.
type Campaign struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Raised      int64  `json:"raised"`
	Target      int64  `json:"target"`
	DaysLeft    int    `json:"days_left"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// Step is a position in the payment wizard.
type Step string

const (
	StepAmount  Step = "amount"
	StepMethod  Step = "method"
	StepSuccess Step = "success"
)

// Index returns the zero-based position of the step for progress display.
func (s Step) Index() int {
	switch s {
	case StepMethod:
		return 1
	case StepSuccess:
		return 2
	default:
		return 0
	}
}

// MinimumDonation is the smallest accepted amount, in rupiah.
const MinimumDonation int64 = 1000

// MaxMessageLength bounds the donor message, counted in code points.
const MaxMessageLength = 200

// QuickAmounts are the preset amounts offered on the amount step.
var QuickAmounts = []int64{10000, 20000, 50000, 100000, 200000, 500000}

// IsQuickAmount reports whether v is one of the presets.
func IsQuickAmount(v int64) bool {
	for _, q := range QuickAmounts {
		if q == v {
			return true
		}
	}
	return false
}

// PaymentMethod is one of the fixed payment options.
type PaymentMethod struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// PaymentMethods lists every selectable method.
var PaymentMethods = []PaymentMethod{
	{ID: "bca", Name: "BCA", Type: "Bank Transfer"},
	{ID: "gopay", Name: "GoPay", Type: "E-Wallet"},
	{ID: "ovo", Name: "OVO", Type: "E-Wallet"},
	{ID: "dana", Name: "DANA", Type: "E-Wallet"},
}

// LookupPaymentMethod finds a method by ID.
func LookupPaymentMethod(id string) (PaymentMethod, bool) {
	for _, m := range PaymentMethods {
		if m.ID == id {
			return m, true
		}
	}
	return PaymentMethod{}, false
}

// ReceiptStatusCompleted is the only status a receipt is issued with.
const ReceiptStatusCompleted = "completed"

// Receipt summarizes a completed donation on the success step.
type Receipt struct {
	ID            uuid.UUID `json:"id"`
	CampaignID    int       `json:"campaign_id"`
	CampaignTitle string    `json:"campaign_title"`
	Amount        int64     `json:"amount"`
	AmountDisplay string    `json:"amount_display"`
	Method        string    `json:"method"`
	MethodName    string    `json:"method_name"`
	Message       string    `json:"message,omitempty"`
	Anonymous     bool      `json:"anonymous"`
	Status        string    `json:"status"`
	CompletedAt   time.Time `json:"completed_at"`
}
