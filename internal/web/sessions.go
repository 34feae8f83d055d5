package web

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"sync"
	"time"
)

const (
	_sessionCookie  = "session_id"
	_sessionTimeout = 24 * time.Hour
	_janitorPeriod  = 1 * time.Hour
)

// Session is one logged-in browser. Refreshed records whether this session
// already triggered the price refresh pass, so it runs at most once per
// session instead of on every page load.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time

	mu        sync.Mutex
	refreshed bool
}

// BeginRefresh flips the once-per-session flag. It reports true for
// exactly one caller per session.
func (s *Session) BeginRefresh() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.refreshed {
		return false
	}
	s.refreshed = true
	return true
}

type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

func (m *SessionManager) Create() (*Session, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("%w: can't generate session id", err)
	}
	// raw encoding keeps '=' out of the cookie value
	id := base64.RawURLEncoding.EncodeToString(b)

	now := time.Now()
	session := &Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(_sessionTimeout),
	}

	m.mu.Lock()
	m.sessions[id] = session
	m.mu.Unlock()

	return session, nil
}

func (m *SessionManager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok || time.Now().After(session.ExpiresAt) {
		return nil, false
	}
	return session, true
}

func (m *SessionManager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *SessionManager) FromRequest(r *http.Request) (*Session, bool) {
	cookie, err := r.Cookie(_sessionCookie)
	if err != nil {
		return nil, false
	}
	return m.Get(cookie.Value)
}

func (m *SessionManager) SetCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     _sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(_sessionTimeout.Seconds()),
	})
}

func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     _sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// Run sweeps expired sessions until ctx is done.
func (m *SessionManager) Run(ctx context.Context) {
	ticker := time.NewTicker(_janitorPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for id, session := range m.sessions {
				if now.After(session.ExpiresAt) {
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()
		}
	}
}
