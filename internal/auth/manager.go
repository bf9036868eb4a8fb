// Package auth implements device-bound login on top of the account store.
//
// There is one session slot per store. Login fills it, Logout empties it,
// and Session empties it lazily when it finds the session expired. An account
// is bound to the device of its first successful login; later logins from a
// different device fail with ErrDeviceMismatch.
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
	"github.com/dmitrijs2005/signaldesk/internal/fingerprint"
	"github.com/dmitrijs2005/signaldesk/internal/logging"
	"github.com/dmitrijs2005/signaldesk/internal/storage"
)

// DeviceIdentifier computes the fingerprint of the current device.
type DeviceIdentifier interface {
	Current(ctx context.Context) (string, error)
}

type Manager struct {
	accounts *accounts.Store
	kv       storage.Store
	device   DeviceIdentifier
	logger   logging.Logger
	now      func() time.Time
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(l logging.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

func NewManager(store *accounts.Store, kv storage.Store, device DeviceIdentifier, opts ...Option) *Manager {
	m := &Manager{
		accounts: store,
		kv:       kv,
		device:   device,
		logger:   logging.Discard(),
		now:      time.Now,
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("module", "auth")
	return m
}

// Login authenticates username/secret from the current device.
//
// Checks run in order: credentials, subscription expiry, device binding. An
// unbound account is bound to the current device before the session is
// issued. The new session replaces any previous one.
func (m *Manager) Login(ctx context.Context, username string, secret []byte) (*Session, error) {
	acc, err := m.accounts.GetByUsername(ctx, username)
	if errors.Is(err, accounts.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !accounts.VerifySecret(acc, secret) {
		return nil, ErrInvalidCredentials
	}

	if acc.Expired(m.now()) {
		m.logger.Info(ctx, "login refused: subscription expired", "user", acc.Username)
		return nil, ErrSubscriptionExpired
	}

	deviceID, err := m.device.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute device fingerprint: %w", err)
	}

	if acc.DeviceID != "" && acc.DeviceID != deviceID {
		m.logger.Warn(ctx, "login refused: device mismatch", "user", acc.Username)
		return nil, ErrDeviceMismatch
	}

	if acc.DeviceID == "" {
		if acc, err = m.accounts.BindDevice(ctx, acc.ID, deviceID); err != nil {
			return nil, fmt.Errorf("bind device: %w", err)
		}
		m.logger.Info(ctx, "device bound", "user", acc.Username)
	}

	sess := &Session{
		UserID:    acc.ID,
		Username:  acc.Username,
		ExpiresAt: Expiry{At: acc.ExpiresAt},
		DeviceID:  deviceID,
	}

	sessJSON, err := json.Marshal(sess)
	if err != nil {
		return nil, err
	}
	fpJSON, err := json.Marshal(deviceID)
	if err != nil {
		return nil, err
	}

	// session slot and fingerprint cache go out together
	err = m.kv.SetMany(ctx, map[string][]byte{
		SessionKey:             sessJSON,
		fingerprint.StorageKey: fpJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	m.logger.Info(ctx, "logged in", "user", acc.Username)
	return sess, nil
}

// Logout clears the session slot. Calling it without a session is a no-op.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Session returns the current session, or nil if there is none. A session
// whose finite expiry lies before now is cleared and reported as absent;
// so is a session record that no longer decodes.
func (m *Manager) Session(ctx context.Context) (*Session, error) {
	var sess Session
	found, err := storage.GetJSON(ctx, m.kv, SessionKey, &sess)
	if errors.Is(err, storage.ErrCorrupt) {
		m.logger.Warn(ctx, "clearing unreadable session", "error", err)
		return nil, m.Logout(ctx)
	}
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	if sess.ExpiresAt.Before(m.now()) {
		m.logger.Info(ctx, "session expired", "user", sess.Username)
		return nil, m.Logout(ctx)
	}
	return &sess, nil
}

func (m *Manager) IsAuthenticated(ctx context.Context) (bool, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return false, err
	}
	return sess != nil, nil
}

// CurrentAccount returns the account behind the live session.
func (m *Manager) CurrentAccount(ctx context.Context) (*accounts.Account, error) {
	sess, err := m.Session(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, ErrNotAuthenticated
	}
	return m.accounts.GetByID(ctx, sess.UserID)
}

func (m *Manager) AddUser(ctx context.Context, in accounts.NewAccount) (*accounts.Account, error) {
	return m.accounts.Add(ctx, in)
}

// UpdateUser merges u into the account. A validity change recomputes the
// expiry from now.
func (m *Manager) UpdateUser(ctx context.Context, id string, u accounts.Update) (*accounts.Account, error) {
	return m.accounts.Update(ctx, id, u)
}

func (m *Manager) DeleteUser(ctx context.Context, id string) error {
	return m.accounts.Delete(ctx, id)
}

func (m *Manager) GetUserByID(ctx context.Context, id string) (*accounts.Account, error) {
	return m.accounts.GetByID(ctx, id)
}

func (m *Manager) ListUsers(ctx context.Context) ([]accounts.Account, error) {
	return m.accounts.List(ctx)
}
