package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-bookingform/pkg/form"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("server: session not found")

// Session binds one page load to the controller that owns its state.
type Session struct {
	ID         string
	Controller *form.Controller
	Created    time.Time

	lastSeen time.Time
}

// SessionHooks observe the session lifecycle.
type SessionHooks struct {
	OnCreate func(*Session)
	OnClose  func(*Session)
}

// SessionStore keeps mounted controllers keyed by a random id. Sessions idle
// for longer than the TTL expire; when the store is full the least recently
// used session is evicted.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	max      int
	now      func() time.Time
	hooks    SessionHooks
	logger   *slog.Logger
}

// NewSessionStore creates a store. Non-positive limits fall back to 30
// minutes and 1000 sessions.
func NewSessionStore(ttl time.Duration, max int, hooks SessionHooks, logger *slog.Logger) *SessionStore {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if max <= 0 {
		max = 1000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      max,
		now:      time.Now,
		hooks:    hooks,
		logger:   logger.With("component", "session_store"),
	}
}

// Create registers a controller under a fresh id.
func (s *SessionStore) Create(c *form.Controller) *Session {
	now := s.now()
	session := &Session{
		ID:         uuid.NewString(),
		Controller: c,
		Created:    now,
		lastSeen:   now,
	}

	s.mu.Lock()
	closed := s.expireLocked(now)
	if len(s.sessions) >= s.max {
		if victim := s.oldestLocked(); victim != nil {
			delete(s.sessions, victim.ID)
			closed = append(closed, victim)
			s.logger.Info("session evicted", "session", victim.ID, "reason", "capacity")
		}
	}
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.closed(closed)
	if s.hooks.OnCreate != nil {
		s.hooks.OnCreate(session)
	}
	return session
}

// Get returns a live session and refreshes its idle timer.
func (s *SessionStore) Get(id string) (*Session, error) {
	now := s.now()

	s.mu.Lock()
	session, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if now.Sub(session.lastSeen) > s.ttl {
		delete(s.sessions, id)
		s.mu.Unlock()
		s.closed([]*Session{session})
		return nil, ErrSessionNotFound
	}
	session.lastSeen = now
	s.mu.Unlock()
	return session, nil
}

// Delete removes a session. Unknown ids are ignored.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	session, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	if ok {
		s.closed([]*Session{session})
	}
}

// Sweep drops expired sessions and reports how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	closed := s.expireLocked(s.now())
	s.mu.Unlock()
	s.closed(closed)
	return len(closed)
}

// Len reports the number of held sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps periodically until ctx is done.
func (s *SessionStore) Run(ctx context.Context) {
	interval := s.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("sessions expired", "count", n, "active", s.Len())
			}
		}
	}
}

func (s *SessionStore) expireLocked(now time.Time) []*Session {
	var closed []*Session
	for id, session := range s.sessions {
		if now.Sub(session.lastSeen) > s.ttl {
			delete(s.sessions, id)
			closed = append(closed, session)
		}
	}
	return closed
}

func (s *SessionStore) oldestLocked() *Session {
	var oldest *Session
	for _, session := range s.sessions {
		if oldest == nil || session.lastSeen.Before(oldest.lastSeen) {
			oldest = session
		}
	}
	return oldest
}

func (s *SessionStore) closed(sessions []*Session) {
	if s.hooks.OnClose == nil {
		return
	}
	for _, session := range sessions {
		s.hooks.OnClose(session)
	}
}
