package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/kebaikan/internal/catalog"
	"github.com/DukeRupert/kebaikan/internal/clock"
	"github.com/DukeRupert/kebaikan/internal/connectivity"
	"github.com/DukeRupert/kebaikan/internal/credential"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/donation"
)

// Options holds what every session needs to mount its controllers.
type Options struct {
	Clock       clock.Clock
	Catalog     *catalog.Catalog
	Backend     credential.Backend
	Gateway     donation.Gateway
	Form        credential.Config
	Donation    donation.Config
	IdleTimeout time.Duration
	Logger      *slog.Logger
}

// Session is one visitor's view of the app.
//
// The session lock is never held while a controller method runs, so the
// controllers may call back into the session (login, navigation) from
// their own goroutines.
type Session struct {
	ID uuid.UUID

	opts   Options
	conn   *connectivity.Monitor
	logger *slog.Logger

	mu       sync.Mutex
	form     *credential.Form
	wizard   *donation.Wizard
	page     Page
	loggedIn bool
	user     string
	selected *domain.Campaign
	lastSeen time.Time
	closed   bool
}

var _ donation.Navigator = (*Session)(nil)

func newSession(id uuid.UUID, opts Options) *Session {
	s := &Session{
		ID:       id,
		opts:     opts,
		conn:     connectivity.NewMonitor(true),
		logger:   opts.Logger.With("session_id", id.String()),
		page:     PageLogin,
		lastSeen: opts.Clock.Now(),
	}
	s.form = s.mountForm()
	return s
}

func (s *Session) mountForm() *credential.Form {
	return credential.New(s.opts.Form, s.opts.Clock, s.opts.Backend, s.login, s.logger)
}

// login is the credential form's success callback.
func (s *Session) login(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.loggedIn = true
	s.user = identity
	s.page = PageHome
	s.logger.Info("visitor signed in", "user", identity)
}

// Form returns the mounted credential form.
func (s *Session) Form() *credential.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Connectivity returns the monitor fed by the visitor's online/offline
// reports.
func (s *Session) Connectivity() *connectivity.Monitor {
	return s.conn
}

// LoggedIn reports whether the visitor has signed in.
func (s *Session) LoggedIn() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loggedIn
}

// Wizard returns the payment flow in progress.
func (s *Session) Wizard() (*donation.Wizard, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wizard == nil {
		return nil, domain.Conflict("session.wizard", "no donation in progress")
	}
	return s.wizard, nil
}

// Navigate opens a top-level page from the navbar. Leaving the payment
// page unmounts the wizard.
func (s *Session) Navigate(page Page) error {
	const op = "session.navigate"
	if !navigable(page) {
		return domain.Invalid(op, fmt.Sprintf("unknown page %q", page))
	}

	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return domain.Unauthorized(op, "Please sign in first")
	}
	s.page = page
	w := s.detachWizardLocked()
	s.mu.Unlock()

	closeWizard(w)
	return nil
}

// SelectCampaign opens the detail page of a campaign.
func (s *Session) SelectCampaign(id int) (domain.Campaign, error) {
	const op = "session.select_campaign"

	cp, ok := s.opts.Catalog.Get(id)
	if !ok {
		return domain.Campaign{}, domain.NotFound(op, "campaign", fmt.Sprint(id))
	}

	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return domain.Campaign{}, domain.Unauthorized(op, "Please sign in first")
	}
	s.selected = &cp
	s.page = PageDonation
	w := s.detachWizardLocked()
	s.mu.Unlock()

	closeWizard(w)
	return cp, nil
}

// StartDonation mounts a fresh payment wizard. An id of zero donates to the
// selected campaign, or the catalog default when none was selected. Any
// wizard already mounted is closed first.
func (s *Session) StartDonation(id int) (*donation.Wizard, error) {
	const op = "session.start_donation"

	s.mu.Lock()
	if !s.loggedIn {
		s.mu.Unlock()
		return nil, domain.Unauthorized(op, "Please sign in first")
	}
	var cp domain.Campaign
	switch {
	case id != 0:
		found, ok := s.opts.Catalog.Get(id)
		if !ok {
			s.mu.Unlock()
			return nil, domain.NotFound(op, "campaign", fmt.Sprint(id))
		}
		cp = found
	case s.selected != nil:
		cp = *s.selected
	default:
		cp = s.opts.Catalog.Default()
	}
	old := s.detachWizardLocked()
	s.mu.Unlock()

	closeWizard(old)
	w := donation.New(s.opts.Donation, s.opts.Clock, s.opts.Gateway, s, s.conn, cp, s.logger)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		w.Close()
		return nil, domain.Conflict(op, "session is closed")
	}
	s.selected = &cp
	s.wizard = w
	s.page = PagePayment
	s.logger.Info("donation started", "campaign_id", cp.ID)
	return w, nil
}

// NavigateTo is called by the wizard when the visitor leaves the flow.
func (s *Session) NavigateTo(dest string, campaign *domain.Campaign) {
	s.mu.Lock()
	s.page = Page(dest)
	if campaign != nil {
		cp := *campaign
		s.selected = &cp
	}
	var w *donation.Wizard
	if s.page != PagePayment {
		w = s.detachWizardLocked()
	}
	s.mu.Unlock()

	closeWizard(w)
}

// Logout signs the visitor out and mounts a fresh credential form.
func (s *Session) Logout() {
	s.mu.Lock()
	w := s.detachWizardLocked()
	old := s.form
	s.form = s.mountForm()
	s.loggedIn = false
	s.user = ""
	s.selected = nil
	s.page = PageLogin
	s.mu.Unlock()

	closeWizard(w)
	old.Close()
	s.logger.Info("visitor signed out")
}

func (s *Session) detachWizardLocked() *donation.Wizard {
	w := s.wizard
	s.wizard = nil
	return w
}

func closeWizard(w *donation.Wizard) {
	if w != nil {
		w.Close()
	}
}

// View is everything the front end renders for a session.
type View struct {
	ID       uuid.UUID        `json:"id"`
	Page     Page             `json:"page"`
	LoggedIn bool             `json:"logged_in"`
	User     string           `json:"user,omitempty"`
	Selected *domain.Campaign `json:"selected,omitempty"`
	Online   bool             `json:"online"`
	Auth     credential.State `json:"auth"`
	Donation *donation.State  `json:"donation,omitempty"`
}

// View snapshots the session and its controllers. Visitors who have not
// signed in always see the login page.
func (s *Session) View() View {
	s.mu.Lock()
	v := View{
		ID:       s.ID,
		Page:     s.page,
		LoggedIn: s.loggedIn,
		User:     s.user,
	}
	if !s.loggedIn {
		v.Page = PageLogin
	}
	if s.selected != nil {
		cp := *s.selected
		v.Selected = &cp
	}
	form, w := s.form, s.wizard
	s.mu.Unlock()

	v.Online = s.conn.Online()
	v.Auth = form.Snapshot()
	if w != nil {
		ds := w.Snapshot()
		v.Donation = &ds
	}
	return v
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Close unmounts every controller. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	w := s.detachWizardLocked()
	form := s.form
	s.mu.Unlock()

	closeWizard(w)
	form.Close()
	s.logger.Debug("session closed", "connectivity_subscribers", s.conn.Subscribers())
}
