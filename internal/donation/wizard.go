// Package donation implements the three-step donation wizard: amount entry,
// payment method selection and the success receipt.
//
// The wizard validates each step before moving forward, runs the simulated
// payment through an injected Gateway and Clock, and blocks navigation
// while the connectivity source reports the visitor offline.
package donation

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/clock"
	"github.com/DukeRupert/kebaikan/internal/connectivity"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/metrics"
)

// Navigation destinations the wizard hands to its Navigator.
const (
	DestCampaign = "donation" // campaign detail page
	DestHome     = "home"
)

const offlineMessage = "No internet connection. Please check your network and try again."

// Navigator is the collaborator that leaves the wizard.
type Navigator interface {
	NavigateTo(dest string, campaign *domain.Campaign)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(dest string, campaign *domain.Campaign)

func (f NavigatorFunc) NavigateTo(dest string, campaign *domain.Campaign) {
	f(dest, campaign)
}

// Config tunes the wizard's timing and retry policy.
type Config struct {
	PaymentDelay time.Duration // latency of the simulated gateway
	ErrorTTL     time.Duration // visible lifetime of validation and payment notices
	FlashTTL     time.Duration // visible lifetime of the success notification
	MaxAttempts  int           // failed payments before the donor is told to switch method
}

// DefaultConfig returns the demo timings.
func DefaultConfig() Config {
	return Config{
		PaymentDelay: 2 * time.Second,
		ErrorTTL:     5 * time.Second,
		FlashTTL:     5 * time.Second,
		MaxAttempts:  3,
	}
}

// Wizard is one mounted payment flow for a single campaign.
//
// All methods are safe for concurrent use. Navigation callbacks run after
// the internal mutex is released.
type Wizard struct {
	cfg         Config
	clock       clock.Clock
	gateway     Gateway
	nav         Navigator
	logger      *slog.Logger
	unsubscribe func()

	mu        sync.Mutex
	campaign  domain.Campaign
	step      domain.Step
	amount    string
	quick     int64
	message   string
	anonymous bool
	method    string
	notice    *domain.Notice
	flash     *domain.Notice
	retries   int
	offline   bool
	receipt   *domain.Receipt
	pending   clock.Timer // non-nil while a payment is in flight
	attempt   int
	closed    bool
}

// New mounts a wizard at the amount step for campaign. conn may be nil, in
// which case the visitor is always considered online.
func New(cfg Config, clk clock.Clock, gateway Gateway, nav Navigator, conn connectivity.Source,
	campaign domain.Campaign, logger *slog.Logger) *Wizard {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if nav == nil {
		nav = NavigatorFunc(func(string, *domain.Campaign) {})
	}
	w := &Wizard{
		cfg:      cfg,
		clock:    clk,
		gateway:  gateway,
		nav:      nav,
		logger:   logger.With("campaign_id", campaign.ID),
		campaign: campaign,
		step:     domain.StepAmount,
	}
	if conn != nil {
		w.unsubscribe = conn.Subscribe(w.setOnline)
		if !conn.Online() {
			w.setOnline(false)
		}
	}
	return w
}

// setOnline is the connectivity subscription. Going offline raises a
// persistent network notice; coming back clears it without retrying.
func (w *Wizard) setOnline(online bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.offline = !online
	if !online {
		w.notice = domain.NewNotice(domain.KindNetwork, "", offlineMessage, w.clock.Now(), 0)
		w.logger.Warn("visitor went offline")
		return
	}
	if w.notice != nil && w.notice.Kind == domain.KindNetwork {
		w.notice = nil
	}
	w.logger.Info("visitor back online")
}

// guardLocked rejects operations on a closed wizard or while a payment is
// in flight.
func (w *Wizard) guardLocked(op string) error {
	if w.closed {
		return domain.Conflict(op, "payment flow is closed")
	}
	if w.pending != nil {
		return domain.Busy(op)
	}
	return nil
}

// offlineLocked returns the network notice when navigation is blocked.
func (w *Wizard) offlineLocked() error {
	if !w.offline {
		return nil
	}
	if w.notice == nil || w.notice.Kind != domain.KindNetwork {
		w.notice = domain.NewNotice(domain.KindNetwork, "", offlineMessage, w.clock.Now(), 0)
	}
	return w.notice
}

// raiseLocked builds a notice that expires after ErrorTTL and shows it.
// While offline the network notice stays on display; the new notice is
// only returned to the caller.
func (w *Wizard) raiseLocked(kind domain.NoticeKind, field, message string) *domain.Notice {
	n := domain.NewNotice(kind, field, message, w.clock.Now(), w.cfg.ErrorTTL)
	if w.offline {
		w.offlineLocked()
		return n
	}
	w.notice = n
	return n
}

// clearNoticeLocked drops the current notice unless it is the offline one.
func (w *Wizard) clearNoticeLocked() {
	if w.offline && w.notice != nil && w.notice.Kind == domain.KindNetwork {
		return
	}
	w.notice = nil
}

// clearValidationLocked drops an active validation notice.
func (w *Wizard) clearValidationLocked() {
	if w.notice.Active(w.clock.Now()) && w.notice.Kind == domain.KindValidation {
		w.notice = nil
	}
}

func (w *Wizard) requireStepLocked(op string, step domain.Step) error {
	if w.step != step {
		return domain.Conflict(op, fmt.Sprintf("not available at the %s step", w.step))
	}
	return nil
}

// SelectQuickAmount picks one of the preset amounts, filling the amount
// text with it. Selecting the same preset again changes nothing.
func (w *Wizard) SelectQuickAmount(value int64) error {
	const op = "donation.select_quick_amount"
	if !domain.IsQuickAmount(value) {
		return domain.Invalid(op, fmt.Sprintf("%d is not a preset amount", value))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.requireStepLocked(op, domain.StepAmount); err != nil {
		return err
	}
	w.clearNoticeLocked()
	w.quick = value
	w.amount = strconv.FormatInt(value, 10)
	return nil
}

// SetAmountText stores a typed amount. An active validation notice is
// cleared.
func (w *Wizard) SetAmountText(text string) error {
	const op = "donation.set_amount"

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.requireStepLocked(op, domain.StepAmount); err != nil {
		return err
	}
	w.amount = text
	w.quick = 0
	if n, ok := parseInteger(text); ok {
		w.quick = n
	}
	w.clearValidationLocked()
	return nil
}

// ValidateAmount checks text against the amount rules. With emit set, a
// failure is raised as the visible notice; otherwise the notice describing
// the failure is returned without being shown.
func (w *Wizard) ValidateAmount(text string, emit bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateLocked(FieldAmount, checkAmount(text), emit)
}

// ValidateMessage checks msg against the message rules. emit behaves as in
// ValidateAmount.
func (w *Wizard) ValidateMessage(msg string, emit bool) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.validateLocked(FieldMessage, checkMessage(msg), emit)
}

func (w *Wizard) validateLocked(field, msg string, emit bool) error {
	if msg == "" {
		return nil
	}
	metrics.ValidationFailures.WithLabelValues("donation", field).Inc()
	if emit {
		return w.raiseLocked(domain.KindValidation, field, msg)
	}
	return &domain.Notice{Kind: domain.KindValidation, Field: field, Message: msg}
}

// BlurAmount silently re-checks the stored amount.
func (w *Wizard) BlurAmount() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return AmountValid(w.amount)
}

// BlurMessage silently re-checks the stored message.
func (w *Wizard) BlurMessage() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return MessageValid(w.message)
}

// SetMessage stores the donor message. An active validation notice is
// cleared.
func (w *Wizard) SetMessage(text string) error {
	const op = "donation.set_message"

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.requireStepLocked(op, domain.StepAmount); err != nil {
		return err
	}
	w.message = text
	w.clearValidationLocked()
	return nil
}

// SetAnonymous toggles whether the receipt hides the donor.
func (w *Wizard) SetAnonymous(anonymous bool) error {
	const op = "donation.set_anonymous"

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.requireStepLocked(op, domain.StepAmount); err != nil {
		return err
	}
	w.anonymous = anonymous
	return nil
}

// SelectMethod chooses a payment method on the method step.
func (w *Wizard) SelectMethod(id string) error {
	const op = "donation.select_method"
	if _, ok := domain.LookupPaymentMethod(id); !ok {
		return domain.Invalid(op, fmt.Sprintf("unknown payment method %q", id))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.requireStepLocked(op, domain.StepMethod); err != nil {
		return err
	}
	w.clearNoticeLocked()
	w.method = id
	return nil
}

// Advance moves the wizard forward. At the amount step it validates the
// amount and then the message; at the method step it requires a method and
// starts the payment. A rejected advance leaves the step unchanged and
// returns the notice it raised.
func (w *Wizard) Advance() error {
	const op = "donation.advance"

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.offlineLocked(); err != nil {
		return err
	}

	switch w.step {
	case domain.StepAmount:
		w.notice = nil
		if err := w.validateLocked(FieldAmount, checkAmount(w.amount), true); err != nil {
			return err
		}
		if err := w.validateLocked(FieldMessage, checkMessage(w.message), true); err != nil {
			return err
		}
		w.step = domain.StepMethod
		return nil

	case domain.StepMethod:
		if w.method == "" {
			metrics.ValidationFailures.WithLabelValues("donation", FieldMethod).Inc()
			return w.raiseLocked(domain.KindValidation, FieldMethod, "Please select a payment method")
		}
		amount, _ := parseInteger(w.amount)
		charge := Charge{
			CampaignID: w.campaign.ID,
			Amount:     amount,
			Method:     w.method,
			Anonymous:  w.anonymous,
		}
		w.attempt++
		attempt := w.attempt
		w.pending = w.clock.AfterFunc(w.cfg.PaymentDelay, func() { w.resolve(attempt, charge) })
		metrics.CallStarted(metrics.CallPayment)
		w.logger.Debug("payment started", "amount", charge.Amount, "method", charge.Method)
		return nil
	}
	return domain.Conflict(op, "donation already completed")
}

// resolve applies the gateway outcome once the simulated delay elapses.
func (w *Wizard) resolve(attempt int, charge Charge) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || w.pending == nil || w.attempt != attempt {
		return
	}
	w.pending = nil

	outcome := w.gateway.Pay(charge)
	metrics.CallResolved(metrics.CallPayment, string(outcome))

	if outcome == OutcomeSuccess {
		w.completeLocked(charge)
		return
	}

	w.retries++
	if w.retries >= w.cfg.MaxAttempts {
		n := w.raiseLocked(domain.KindPayment, FieldMethod, fmt.Sprintf(
			"Payment failed after %d attempts. Please try a different payment method.", w.cfg.MaxAttempts))
		n.Attempt = w.retries
		w.retries = 0
		metrics.PaymentRetriesExhausted.WithLabelValues(charge.Method).Inc()
		w.logger.Warn("payment retries exhausted", "method", charge.Method)
		return
	}
	n := w.raiseLocked(domain.KindPayment, FieldMethod, fmt.Sprintf(
		"Payment failed. Please try again (attempt %d of %d).", w.retries, w.cfg.MaxAttempts))
	n.Attempt = w.retries
	w.logger.Warn("payment failed", "method", charge.Method, "attempt", w.retries)
}

func (w *Wizard) completeLocked(charge Charge) {
	method, _ := domain.LookupPaymentMethod(charge.Method)
	now := w.clock.Now()

	w.retries = 0
	w.step = domain.StepSuccess
	w.clearNoticeLocked()
	w.flash = domain.NewNotice(domain.KindSuccess, "",
		"Donation Successful! Thank you for your contribution", now, w.cfg.FlashTTL)
	w.receipt = &domain.Receipt{
		ID:            uuid.New(),
		CampaignID:    w.campaign.ID,
		CampaignTitle: w.campaign.Title,
		Amount:        charge.Amount,
		AmountDisplay: catalog.FormatRupiah(charge.Amount),
		Method:        method.ID,
		MethodName:    method.Name,
		Message:       w.message,
		Anonymous:     charge.Anonymous,
		Status:        domain.ReceiptStatusCompleted,
		CompletedAt:   now,
	}
	w.campaign = catalog.WithDonation(w.campaign, charge.Amount)

	metrics.DonationCompleted(charge.Method, charge.Amount)
	w.logger.Info("donation completed",
		"receipt_id", w.receipt.ID,
		"amount", charge.Amount,
		"method", charge.Method,
	)
}

// GoBack returns from the method step to the amount step with every entry
// kept. From the amount step it leaves the flow through the Navigator
// without changing the step.
func (w *Wizard) GoBack() error {
	const op = "donation.go_back"

	w.mu.Lock()
	if err := w.guardLocked(op); err != nil {
		w.mu.Unlock()
		return err
	}
	if err := w.offlineLocked(); err != nil {
		w.mu.Unlock()
		return err
	}

	switch w.step {
	case domain.StepMethod:
		w.step = domain.StepAmount
		w.notice = nil
		w.mu.Unlock()
		return nil
	case domain.StepAmount:
		cp := w.campaign
		w.mu.Unlock()
		w.nav.NavigateTo(DestCampaign, &cp)
		return nil
	}
	w.mu.Unlock()
	return domain.Conflict(op, "donation already completed")
}

// Reset starts another donation for the same campaign. It is only
// available on the success step.
func (w *Wizard) Reset() error {
	const op = "donation.reset"

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.guardLocked(op); err != nil {
		return err
	}
	if err := w.offlineLocked(); err != nil {
		return err
	}
	if err := w.requireStepLocked(op, domain.StepSuccess); err != nil {
		return err
	}

	w.step = domain.StepAmount
	w.amount = ""
	w.quick = 0
	w.message = ""
	w.anonymous = false
	w.method = ""
	w.notice = nil
	w.flash = nil
	w.retries = 0
	w.receipt = nil
	return nil
}

// ViewOtherDonations leaves the success step for the campaign list.
func (w *Wizard) ViewOtherDonations() error {
	const op = "donation.view_other"

	w.mu.Lock()
	if err := w.guardLocked(op); err != nil {
		w.mu.Unlock()
		return err
	}
	if err := w.offlineLocked(); err != nil {
		w.mu.Unlock()
		return err
	}
	if err := w.requireStepLocked(op, domain.StepSuccess); err != nil {
		w.mu.Unlock()
		return err
	}
	w.mu.Unlock()

	w.nav.NavigateTo(DestHome, nil)
	return nil
}

// Close unmounts the wizard: the connectivity subscription is dropped and
// a pending payment is abandoned. Close is idempotent.
func (w *Wizard) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	if w.pending != nil {
		w.pending.Stop()
		w.pending = nil
		metrics.CallAbandoned(metrics.CallPayment)
	}
	w.mu.Unlock()

	if w.unsubscribe != nil {
		w.unsubscribe()
	}
}

// State is a point-in-time view of the wizard for rendering.
type State struct {
	Step         domain.Step     `json:"step"`
	StepIndex    int             `json:"step_index"`
	Campaign     domain.Campaign `json:"campaign"`
	AmountText   string          `json:"amount_text"`
	ParsedAmount int64           `json:"parsed_amount"`
	AmountValid  bool            `json:"amount_valid"`
	Selected     int64           `json:"selected_amount"`
	Message      string          `json:"message"`
	Anonymous    bool            `json:"anonymous"`
	Method       string          `json:"method,omitempty"`
	Notice       *domain.Notice  `json:"notice,omitempty"`
	Flash        *domain.Notice  `json:"flash,omitempty"`
	Retries      int             `json:"retries"`
	Pending      bool            `json:"pending"`
	Offline      bool            `json:"offline"`
	CanContinue  bool            `json:"can_continue"`
	Receipt      *domain.Receipt `json:"receipt,omitempty"`
}

// Snapshot returns the current state. Expired notices are omitted.
func (w *Wizard) Snapshot() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	now := w.clock.Now()
	s := State{
		Step:        w.step,
		StepIndex:   w.step.Index(),
		Campaign:    w.campaign,
		AmountText:  w.amount,
		AmountValid: AmountValid(w.amount),
		Selected:    w.quick,
		Message:     w.message,
		Anonymous:   w.anonymous,
		Method:      w.method,
		Retries:     w.retries,
		Pending:     w.pending != nil,
		Offline:     w.offline,
	}
	if n, ok := parseInteger(w.amount); ok {
		s.ParsedAmount = n
	}
	if w.notice.Active(now) {
		n := *w.notice
		s.Notice = &n
	}
	if w.flash.Active(now) {
		n := *w.flash
		s.Flash = &n
	}
	if w.receipt != nil {
		r := *w.receipt
		s.Receipt = &r
	}

	validationShown := s.Notice != nil && s.Notice.Kind == domain.KindValidation
	switch w.step {
	case domain.StepAmount:
		s.CanContinue = s.AmountValid
	case domain.StepMethod:
		s.CanContinue = w.method != ""
	}
	s.CanContinue = s.CanContinue && !validationShown && !s.Pending && !s.Offline && !w.closed
	return s
}
