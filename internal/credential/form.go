// Package credential implements the login/signup form controller: field
// validation, the simulated authentication call and the temporary lockout
// after repeated failures.
package credential

import (
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/DukeRupert/kebaikan/internal/clock"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/metrics"
)

// GoogleIdentityEmail is the account the demo Google sign-in reports.
const GoogleIdentityEmail = "google@user.com"

// Config tunes the form's timing and lockout policy.
type Config struct {
	AuthDelay        time.Duration // latency of the simulated backend
	ErrorTTL         time.Duration // visible lifetime of an error notice
	FlashTTL         time.Duration // visible lifetime of the success banner
	LockoutThreshold int           // consecutive invalid-credential failures before lockout
	LockoutSeconds   int           // lockout length, counted down once per second
}

// DefaultConfig returns the demo timings.
func DefaultConfig() Config {
	return Config{
		AuthDelay:        2 * time.Second,
		ErrorTTL:         5 * time.Second,
		FlashTTL:         3 * time.Second,
		LockoutThreshold: 3,
		LockoutSeconds:   30,
	}
}

// LoginFunc is the collaborator told about a successful sign-in.
type LoginFunc func(identity string)

// Form is one mounted credential form.
//
// All methods are safe for concurrent use; timer callbacks and caller
// operations are serialized on an internal mutex. The login callback is
// invoked after the mutex is released.
type Form struct {
	cfg     Config
	clock   clock.Clock
	backend Backend
	onLogin LoginFunc
	logger  *slog.Logger

	mu             sync.Mutex
	mode           domain.Mode
	values         map[string]string
	valid          map[string]bool
	touched        map[string]bool
	notice         *domain.Notice
	flash          *domain.Notice
	failedAttempts int
	locked         bool
	lockRemaining  int
	lockTicker     clock.Timer
	lockGen        int // bumped per lockout; stale ticks are ignored
	pending        clock.Timer // non-nil while an auth call is in flight
	attempt        int
	done           bool
	closed         bool
}

// New mounts a form in login mode with empty fields.
func New(cfg Config, clk clock.Clock, backend Backend, onLogin LoginFunc, logger *slog.Logger) *Form {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if onLogin == nil {
		onLogin = func(string) {}
	}
	f := &Form{
		cfg:     cfg,
		clock:   clk,
		backend: backend,
		onLogin: onLogin,
		logger:  logger,
	}
	f.resetLocked(domain.ModeLogin)
	return f
}

// resetLocked clears every piece of form state. Caller holds f.mu.
func (f *Form) resetLocked(mode domain.Mode) {
	f.stopLockoutLocked()
	f.mode = mode
	f.values = map[string]string{}
	f.valid = map[string]bool{}
	f.touched = map[string]bool{}
	f.notice = nil
	f.flash = nil
	f.failedAttempts = 0
	f.locked = false
	f.lockRemaining = 0
}

// guardLocked rejects operations on a form that is finished or busy.
func (f *Form) guardLocked(op string) error {
	if f.closed {
		return domain.Conflict(op, "form is closed")
	}
	if f.done {
		return domain.Conflict(op, "already signed in")
	}
	if f.pending != nil {
		return domain.Busy(op)
	}
	return nil
}

func (f *Form) raiseLocked(kind domain.NoticeKind, field, message string) *domain.Notice {
	f.notice = domain.NewNotice(kind, field, message, f.clock.Now(), f.cfg.ErrorTTL)
	return f.notice
}

// UpdateField stores a raw value and refreshes its silent validity. An
// active error for the same field, or an auth error, is cleared.
func (f *Form) UpdateField(field, value string) error {
	const op = "credential.update_field"
	if !domain.IsCredentialField(field) {
		return domain.Invalid(op, fmt.Sprintf("unknown field %q", field))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardLocked(op); err != nil {
		return err
	}

	f.values[field] = value
	f.valid[field] = Valid(field, value, f.mode)

	if f.notice.Active(f.clock.Now()) &&
		(f.notice.Field == field || f.notice.Kind == domain.KindAuth || f.notice.Kind == domain.KindLockout) {
		f.notice = nil
	}
	return nil
}

// BlurField marks field touched and re-validates it, raising a visible
// validation notice when the value is invalid. The notice is returned.
func (f *Form) BlurField(field string) error {
	const op = "credential.blur_field"
	if !domain.IsCredentialField(field) {
		return domain.Invalid(op, fmt.Sprintf("unknown field %q", field))
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardLocked(op); err != nil {
		return err
	}

	f.touched[field] = true
	if msg := checkField(field, f.values[field], f.mode); msg != "" {
		metrics.ValidationFailures.WithLabelValues("credential", field).Inc()
		return f.raiseLocked(domain.KindValidation, field, msg)
	}
	return nil
}

// Submit validates every field and, if all pass, starts the simulated
// authentication call. The first invalid field aborts the submission and
// its notice is returned. While locked out, Submit only reports the
// remaining wait.
func (f *Form) Submit() error {
	const op = "credential.submit"

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardLocked(op); err != nil {
		return err
	}
	if f.locked {
		return f.raiseLocked(domain.KindLockout, "",
			fmt.Sprintf("Account is locked. Please wait %d seconds.", f.lockRemaining))
	}

	f.notice = nil
	for _, field := range domain.CredentialFields {
		f.touched[field] = true
	}
	for _, field := range domain.CredentialFields {
		if msg := checkField(field, f.values[field], f.mode); msg != "" {
			metrics.ValidationFailures.WithLabelValues("credential", field).Inc()
			return f.raiseLocked(domain.KindValidation, field, msg)
		}
	}

	req := Request{
		Mode:           f.mode,
		Email:          f.values[domain.FieldEmail],
		Name:           f.values[domain.FieldName],
		PasswordLength: utf8.RuneCountInString(f.values[domain.FieldPassword]),
	}

	f.attempt++
	attempt := f.attempt
	f.pending = f.clock.AfterFunc(f.cfg.AuthDelay, func() { f.resolve(attempt, req) })
	metrics.CallStarted(metrics.CallAuth)

	f.logger.Debug("auth attempt started",
		"mode", req.Mode,
		"email", req.Email,
		"password_length", req.PasswordLength,
	)
	return nil
}

// resolve applies the backend outcome once the simulated delay elapses.
func (f *Form) resolve(attempt int, req Request) {
	f.mu.Lock()
	if f.closed || f.pending == nil || f.attempt != attempt {
		f.mu.Unlock()
		return
	}
	f.pending = nil

	outcome := f.backend.Authenticate(req)
	metrics.CallResolved(metrics.CallAuth, string(outcome))
	f.logger.Info("auth attempt resolved", "mode", req.Mode, "outcome", outcome)

	switch outcome {
	case OutcomeSuccess:
		identity := identityFor(req.Mode, req.Email, req.Name)
		f.succeedLocked()
		f.mu.Unlock()
		f.onLogin(identity)
		return
	case OutcomeNetworkError:
		f.raiseLocked(domain.KindNetwork, "",
			"Network connection failed. Please check your internet connection.")
	case OutcomeInvalidCredentials:
		f.rejectCredentialsLocked()
	case OutcomeEmailExists:
		f.raiseLocked(domain.KindEmailExists, domain.FieldEmail,
			"An account with this email already exists. Try signing in instead.")
	case OutcomeServerError:
		f.raiseLocked(domain.KindServer, "", "Server error occurred. Please try again later.")
	default:
		f.raiseLocked(domain.KindServer, "", "An unexpected error occurred. Please try again.")
	}
	f.mu.Unlock()
}

func (f *Form) succeedLocked() {
	msg := "Login successful! Redirecting..."
	if f.mode == domain.ModeSignup {
		msg = "Account created successfully! Redirecting..."
	}
	f.notice = nil
	f.flash = domain.NewNotice(domain.KindSuccess, "", msg, f.clock.Now(), f.cfg.FlashTTL)
	f.done = true
	f.stopLockoutLocked()
}

func (f *Form) rejectCredentialsLocked() {
	if f.mode != domain.ModeLogin {
		f.raiseLocked(domain.KindAuth, "", "Invalid email or password.")
		return
	}
	f.failedAttempts++
	if f.failedAttempts >= f.cfg.LockoutThreshold {
		f.startLockoutLocked()
		return
	}
	f.raiseLocked(domain.KindAuth, "", fmt.Sprintf("Invalid email or password. %d attempts remaining.",
		f.cfg.LockoutThreshold-f.failedAttempts))
}

func (f *Form) startLockoutLocked() {
	f.locked = true
	f.lockRemaining = f.cfg.LockoutSeconds
	f.lockGen++
	gen := f.lockGen
	f.lockTicker = f.clock.Every(time.Second, func() { f.tick(gen) })
	metrics.LockoutsTotal.Inc()
	f.logger.Warn("login locked out",
		"failed_attempts", f.failedAttempts,
		"seconds", f.cfg.LockoutSeconds,
	)
	f.raiseLocked(domain.KindLockout, "",
		fmt.Sprintf("Too many failed attempts. Account locked for %d seconds.", f.cfg.LockoutSeconds))
}

// tick counts the lockout down by one second.
func (f *Form) tick(gen int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.locked || gen != f.lockGen {
		return
	}
	f.lockRemaining--
	if f.lockRemaining <= 0 {
		f.stopLockoutLocked()
		f.failedAttempts = 0
		f.logger.Info("login lockout cleared")
	}
}

func (f *Form) stopLockoutLocked() {
	if f.lockTicker != nil {
		f.lockTicker.Stop()
		f.lockTicker = nil
	}
	f.locked = false
	f.lockRemaining = 0
}

// SwitchMode toggles between login and signup and resets all state,
// including failed attempts and any lockout.
func (f *Form) SwitchMode() error {
	const op = "credential.switch_mode"

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.guardLocked(op); err != nil {
		return err
	}
	f.resetLocked(f.mode.Other())
	return nil
}

// SignInWithGoogle signs in with the demo Google account, bypassing the
// simulated backend. It honors the lockout like Submit does.
func (f *Form) SignInWithGoogle() error {
	const op = "credential.google"

	f.mu.Lock()
	if err := f.guardLocked(op); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.locked {
		n := f.raiseLocked(domain.KindLockout, "",
			fmt.Sprintf("Account is locked. Please wait %d seconds.", f.lockRemaining))
		f.mu.Unlock()
		return n
	}
	f.succeedLocked()
	f.mu.Unlock()

	f.logger.Info("google sign-in")
	f.onLogin(identityFor(domain.ModeLogin, GoogleIdentityEmail, ""))
	return nil
}

// Close unmounts the form, cancelling the lockout ticker and any pending
// authentication call. Close is idempotent.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.stopLockoutLocked()
	if f.pending != nil {
		f.pending.Stop()
		f.pending = nil
		metrics.CallAbandoned(metrics.CallAuth)
	}
}

// State is a point-in-time view of the form for rendering.
type State struct {
	Mode           domain.Mode     `json:"mode"`
	Email          string          `json:"email"`
	Name           string          `json:"name"`
	PasswordLength int             `json:"password_length"`
	PasswordRules  *PasswordRules  `json:"password_rules,omitempty"`
	Valid          map[string]bool `json:"valid"`
	Touched        map[string]bool `json:"touched"`
	Notice         *domain.Notice  `json:"notice,omitempty"`
	Flash          *domain.Notice  `json:"flash,omitempty"`
	FailedAttempts int             `json:"failed_attempts"`
	Locked         bool            `json:"locked"`
	LockRemaining  int             `json:"lock_remaining"`
	Pending        bool            `json:"pending"`
	Done           bool            `json:"done"`
	CanSubmit      bool            `json:"can_submit"`
}

// Snapshot returns the current state. Expired notices are omitted.
func (f *Form) Snapshot() State {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	s := State{
		Mode:           f.mode,
		Email:          f.values[domain.FieldEmail],
		Name:           f.values[domain.FieldName],
		PasswordLength: utf8.RuneCountInString(f.values[domain.FieldPassword]),
		Valid:          make(map[string]bool, len(domain.CredentialFields)),
		Touched:        make(map[string]bool, len(domain.CredentialFields)),
		FailedAttempts: f.failedAttempts,
		Locked:         f.locked,
		LockRemaining:  f.lockRemaining,
		Pending:        f.pending != nil,
		Done:           f.done,
	}
	for _, field := range domain.CredentialFields {
		s.Valid[field] = f.valid[field]
		s.Touched[field] = f.touched[field]
	}
	if f.mode == domain.ModeSignup && f.values[domain.FieldPassword] != "" {
		rules := CheckPasswordRules(f.values[domain.FieldPassword])
		s.PasswordRules = &rules
	}
	if f.notice.Active(now) {
		n := *f.notice
		s.Notice = &n
	}
	if f.flash.Active(now) {
		n := *f.flash
		s.Flash = &n
	}
	s.CanSubmit = !s.Pending && !s.Locked && !s.Done && !f.closed
	return s
}
