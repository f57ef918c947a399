package session

import (
	"context"
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"fraud_report_backend/internal/appstate"
	"fraud_report_backend/pkg/utils"

	"github.com/google/uuid"
)

// CookieName is the browser cookie carrying the signed session token.
const CookieName = "fr_session"

const keyInfo = "fraud-report-session-v1"

// DefaultMaxSessions is used when NewManager is given a non-positive cap.
const DefaultMaxSessions = 1000

// Session binds one browser to its controller and its pending notifications.
type Session struct {
	ID         uuid.UUID
	Controller *appstate.Controller

	mu       sync.Mutex
	pending  []appstate.Notification
	lastSeen time.Time
}

// Notify queues n until the next page render.
func (s *Session) Notify(n appstate.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, n)
}

// Drain returns and clears the queued notifications.
func (s *Session) Drain() []appstate.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Manager keeps the live sessions in memory.
type Manager struct {
	store       appstate.Store
	key         []byte
	ttl         time.Duration
	maxSessions int
	now         func() time.Time

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

// NewManager derives the token key from secret. An empty secret gets a random one, which means
// sessions do not survive a restart. At most maxSessions live at once; creating one more evicts
// the least recently seen.
func NewManager(store appstate.Store, secret string, ttl time.Duration, maxSessions int) (*Manager, error) {
	raw := []byte(secret)
	if len(raw) == 0 {
		raw = make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
		utils.LogWarn("SESSION_SECRET not set, using a random secret for this process")
	}
	key, err := utils.DeriveKey(raw, keyInfo)
	if err != nil {
		return nil, err
	}
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		store:       store,
		key:         key,
		ttl:         ttl,
		maxSessions: maxSessions,
		now:         time.Now,
		sessions:    make(map[uuid.UUID]*Session),
	}, nil
}

// Resolve returns the session named by token, or a new one when token is empty, invalid, expired
// or refers to an evicted session. The returned token must be set as the cookie value.
func (m *Manager) Resolve(token string) (*Session, string, error) {
	now := m.now()

	if token != "" {
		if raw, err := utils.ValidateSessionToken(m.key, token); err == nil {
			if id, err := uuid.Parse(raw); err == nil {
				m.mu.Lock()
				s, ok := m.sessions[id]
				m.mu.Unlock()
				if ok {
					s.touch(now)
					fresh, err := utils.GenerateSessionToken(m.key, id.String(), m.ttl)
					if err != nil {
						return nil, "", err
					}
					return s, fresh, nil
				}
			}
		}
	}

	s := &Session{ID: uuid.New(), lastSeen: now}
	s.Controller = appstate.NewController(m.store, s)

	fresh, err := utils.GenerateSessionToken(m.key, s.ID.String(), m.ttl)
	if err != nil {
		return nil, "", err
	}

	m.mu.Lock()
	for len(m.sessions) >= m.maxSessions {
		m.evictOldestLocked()
	}
	m.sessions[s.ID] = s
	m.mu.Unlock()

	utils.LogDebug("Session created", map[string]interface{}{"session_id": s.ID.String()})
	return s, fresh, nil
}

// evictOldestLocked drops the least recently seen session.
func (m *Manager) evictOldestLocked() {
	var (
		oldestID uuid.UUID
		oldest   time.Time
		found    bool
	)
	for id, s := range m.sessions {
		if seen := s.idleSince(); !found || seen.Before(oldest) {
			oldestID, oldest, found = id, seen, true
		}
	}
	if found {
		delete(m.sessions, oldestID)
		utils.LogDebug("Evicted least recently seen session", map[string]interface{}{"session_id": oldestID.String()})
	}
}

// TTL is the idle lifetime of a session and its cookie.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were removed.
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps every interval until ctx is cancelled.
func (m *Manager) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.Sweep(); removed > 0 {
				utils.LogDebug("Evicted idle sessions", map[string]interface{}{"removed": removed})
			}
		}
	}
}
