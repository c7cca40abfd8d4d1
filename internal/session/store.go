package session

import (
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/DukeRupert/kebaikan/internal/clock"
	"github.com/DukeRupert/kebaikan/internal/domain"
	"github.com/DukeRupert/kebaikan/internal/metrics"
)

// sweepInterval is how often idle sessions are collected.
const sweepInterval = time.Minute

// Store keeps the live sessions in memory. Nothing survives a restart.
type Store struct {
	opts Options

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	sweeper  clock.Timer
}

// NewStore creates a store and starts collecting idle sessions.
func NewStore(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.IdleTimeout <= 0 {
		opts.IdleTimeout = DefaultIdleTimeout
	}
	s := &Store{
		opts:     opts,
		sessions: make(map[uuid.UUID]*Session),
	}
	s.sweeper = opts.Clock.Every(sweepInterval, s.sweep)
	return s
}

// Create mounts a new session on the login page.
func (s *Store) Create() *Session {
	sess := newSession(uuid.New(), s.opts)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	metrics.SessionsActive.Inc()
	sess.logger.Debug("session created")
	return sess
}

// Get returns a live session and marks it as used. Unknown and idle
// sessions are reported as not found.
func (s *Store) Get(id uuid.UUID) (*Session, error) {
	const op = "session.get"
	now := s.opts.Clock.Now()

	s.mu.Lock()
	sess, ok := s.sessions[id]
	if ok && sess.idleSince(now) >= s.opts.IdleTimeout {
		delete(s.sessions, id)
		s.mu.Unlock()
		s.expire(sess)
		return nil, domain.NotFound(op, "session", id.String())
	}
	s.mu.Unlock()

	if !ok {
		return nil, domain.NotFound(op, "session", id.String())
	}
	sess.touch(now)
	return sess, nil
}

// Lookup parses a cookie value and returns its session.
func (s *Store) Lookup(raw string) (*Session, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, domain.NotFound("session.lookup", "session", raw)
	}
	return s.Get(id)
}

// Delete closes and forgets a session.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if ok {
		sess.Close()
		metrics.SessionsActive.Dec()
	}
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweep removes sessions idle for longer than the timeout.
func (s *Store) sweep() {
	now := s.opts.Clock.Now()

	s.mu.Lock()
	var idle []*Session
	for id, sess := range s.sessions {
		if sess.idleSince(now) >= s.opts.IdleTimeout {
			idle = append(idle, sess)
			delete(s.sessions, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		s.expire(sess)
	}
}

func (s *Store) expire(sess *Session) {
	sess.Close()
	metrics.SessionsActive.Dec()
	sess.logger.Info("session expired")
}

// Close stops the sweeper, closes every session and returns how many were
// closed. Later calls return zero.
func (s *Store) Close() int {
	s.sweeper.Stop()

	s.mu.Lock()
	all := make([]*Session, 0, len(s.sessions))
	for id, sess := range s.sessions {
		all = append(all, sess)
		delete(s.sessions, id)
	}
	s.mu.Unlock()

	for _, sess := range all {
		sess.Close()
		metrics.SessionsActive.Dec()
	}
	return len(all)
}
