// Package session holds the authenticated user and bearer token as an
// explicit object with explicit construction on login and teardown on
// logout, passed by reference to whatever needs it.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/equipo25/ragcli/internal/ragapi"
	"github.com/sirupsen/logrus"
)

// ErrNotAuthenticated is returned when an operation needs a session and none
// is active.
var ErrNotAuthenticated = errors.New("not logged in")

type Session struct {
	User      *ragapi.User
	Token     string
	ExpiresAt time.Time
}

func (s *Session) Valid() bool {
	return s != nil && s.Token != "" && time.Now().Before(s.ExpiresAt)
}

// Manager owns the session lifecycle against the auth endpoints.
type Manager struct {
	client  *ragapi.Client
	store   *Store
	logger  *logrus.Logger
	current *Session
}

func NewManager(client *ragapi.Client, store *Store, logger *logrus.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: logger,
	}
}

// Login authenticates, resolves the current user with the fresh token and
// persists the resulting session. The expiry mirrors the server-issued
// expiresIn, in seconds.
func (m *Manager) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := m.client.Login(ctx, ragapi.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	user := resp.User
	if user == nil {
		user, err = m.client.CurrentUser(ctx, resp.AccessToken)
		if err != nil {
			return nil, err
		}
	}

	sess := &Session{
		User:      user,
		Token:     resp.AccessToken,
		ExpiresAt: time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
	}

	if err := m.store.Save(sess); err != nil {
		return nil, err
	}

	m.current = sess
	m.logger.WithFields(logrus.Fields{
		"email":      user.Email,
		"expires_at": sess.ExpiresAt,
	}).Info("Logged in")

	return sess, nil
}

// Logout notifies the backend best-effort, then tears the session down
// locally regardless of the server's answer.
func (m *Manager) Logout(ctx context.Context) error {
	sess := m.Current()
	if sess != nil {
		if err := m.client.Logout(ctx, sess.Token); err != nil {
			m.logger.WithError(err).Warn("Logout request failed, clearing session anyway")
		}
	}

	m.current = nil
	return m.store.Clear()
}

func (m *Manager) Register(ctx context.Context, name, email, password string) (*ragapi.User, error) {
	return m.client.Register(ctx, ragapi.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
}

// Current returns the active session, restoring a persisted one if needed.
// Nil when there is none or it expired.
func (m *Manager) Current() *Session {
	if m.current.Valid() {
		return m.current
	}

	sess, err := m.store.Load()
	if err != nil {
		m.logger.WithError(err).Warn("Failed to load stored session")
		return nil
	}
	m.current = sess
	return sess
}

// Require returns the active session or ErrNotAuthenticated.
func (m *Manager) Require() (*Session, error) {
	sess := m.Current()
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	return sess, nil
}
