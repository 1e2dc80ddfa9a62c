package api

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/juniorxam/Gestaodevendas/internal/auth"
)

// Session is an authenticated login bound to an opaque bearer token.
type Session struct {
	Token     string           `json:"token"`
	Login     string           `json:"login"`
	Name      string           `json:"name"`
	Level     auth.AccessLevel `json:"level"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// SessionStore keeps live sessions in memory. Tokens are random and never
// persisted, so a daemon restart logs everyone out.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
}

// NewSessionStore creates a session store with the given token lifetime.
func NewSessionStore(ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      ttl,
	}
}

func newToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// Create issues a token for an authenticated user.
func (s *SessionStore) Create(user *auth.User) (*Session, error) {
	token, err := newToken()
	if err != nil {
		return nil, err
	}

	session := &Session{
		Token:     token,
		Login:     user.Login,
		Name:      user.Name,
		Level:     user.AccessLevel,
		ExpiresAt: time.Now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sweepLocked()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}

// Lookup resolves a token, renewing its expiry on use. Expired or unknown
// tokens return nil.
func (s *SessionStore) Lookup(token string) *Session {
	if token == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil
	}
	if time.Now().After(session.ExpiresAt) {
		delete(s.sessions, token)
		return nil
	}

	session.ExpiresAt = time.Now().Add(s.ttl)
	return session
}

// Revoke invalidates a token. Revoking an unknown token is a no-op.
func (s *SessionStore) Revoke(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// RevokeUser invalidates every session belonging to a login. Used when an
// account is deactivated or its password reset.
func (s *SessionStore) RevokeUser(login string) {
	s.mu.Lock()
	for token, session := range s.sessions {
		if session.Login == login {
			delete(s.sessions, token)
		}
	}
	s.mu.Unlock()
}

// Count returns the number of live sessions.
func (s *SessionStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked() {
	now := time.Now()
	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}
