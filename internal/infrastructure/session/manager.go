package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// TokenCodec signs session ids into cookie values and back
type TokenCodec interface {
	SignSession(sessionID string) (string, error)
	ParseSession(token string) (string, error)
}

// Manager loads and saves sessions for HTTP requests
type Manager struct {
	store  Store
	codec  TokenCodec
	ttl    time.Duration
	logger *zap.Logger
}

// NewManager creates a new Manager
func NewManager(store Store, codec TokenCodec, ttl time.Duration, logger *zap.Logger) *Manager {
	return &Manager{
		store:  store,
		codec:  codec,
		ttl:    ttl,
		logger: logger,
	}
}

// TTL returns the session lifetime
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Load resolves the cookie value to a session. Missing, forged, expired
// or unreadable sessions yield a fresh anonymous one.
func (m *Manager) Load(ctx context.Context, token string) *Session {
	if token == "" {
		return newSession()
	}

	id, err := m.codec.ParseSession(token)
	if err != nil {
		m.logger.Debug("Rejected session cookie", zap.Error(err))
		return newSession()
	}

	data, err := m.store.Load(ctx, id)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			m.logger.Warn("Failed to load session", zap.Error(err))
		}
		return newSession()
	}
	return &Session{id: id, data: data}
}

// Save writes the session back and returns the cookie value to send. An
// empty token means nothing needs to be sent. Existing sessions are
// always rewritten to extend their lifetime.
func (m *Manager) Save(ctx context.Context, s *Session) (string, error) {
	for _, id := range s.stale {
		if err := m.store.Delete(ctx, id); err != nil {
			m.logger.Warn("Failed to delete rotated session", zap.Error(err))
		}
	}
	s.stale = nil

	if s.isNew && !s.modified {
		return "", nil
	}
	if err := m.store.Save(ctx, s.id, s.data, m.ttl); err != nil {
		return "", err
	}
	s.isNew = false
	s.modified = false
	return m.codec.SignSession(s.id)
}
