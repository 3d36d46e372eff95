package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

const DefaultLifetime = time.Hour

type Manager struct {
	store    Store
	lifetime time.Duration
	now      func() time.Time
	signer   *Signer
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithSigner makes Issue hand out signed tokens instead of bare session ids.
func WithSigner(s *Signer) Option {
	return func(m *Manager) { m.signer = s }
}

func NewManager(store Store, lifetime time.Duration, opts ...Option) *Manager {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	m := &Manager{store: store, lifetime: lifetime, now: time.Now}
	for _, o := range opts {
		o(m)
	}
	if m.signer != nil {
		m.signer.now = m.now
	}
	return m
}

func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// Issue records a new session and returns the access token for it.
func (m *Manager) Issue(ctx context.Context, username, role string) (string, Session, error) {
	s := Session{
		Token:     uuid.NewString(),
		Username:  username,
		Role:      role,
		CreatedAt: m.now().UTC(),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return "", Session{}, err
	}
	if m.signer == nil {
		return s.Token, s, nil
	}
	tok, err := m.signer.Sign(s, m.lifetime)
	if err != nil {
		_ = m.store.Delete(ctx, s.Token)
		return "", Session{}, err
	}
	return tok, s, nil
}

// Validate resolves an access token. Sessions past their lifetime are
// removed on sight and reported as ErrExpired.
func (m *Manager) Validate(ctx context.Context, token string) (Session, error) {
	id, err := m.sessionID(token)
	if errors.Is(err, ErrExpired) {
		_ = m.store.Delete(ctx, id)
		return Session{}, ErrExpired
	}
	if err != nil {
		return Session{}, err
	}

	s, err := m.store.Load(ctx, id)
	if err != nil {
		return Session{}, err
	}
	if s.ExpiredAt(m.now(), m.lifetime) {
		if err := m.store.Delete(ctx, id); err != nil {
			return Session{}, err
		}
		return Session{}, ErrExpired
	}
	return s, nil
}

// Revoke deletes the session behind token. Unknown tokens are ignored.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	id, err := m.sessionID(token)
	if err != nil && !errors.Is(err, ErrExpired) {
		return nil
	}
	return m.store.Delete(ctx, id)
}

func (m *Manager) sessionID(token string) (string, error) {
	if token == "" {
		return "", ErrNotFound
	}
	if m.signer == nil {
		return token, nil
	}
	return m.signer.SessionID(token)
}
