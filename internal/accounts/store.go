package accounts

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/cryptox"
	"github.com/dmitrijs2005/signaldesk/internal/storage"
	"github.com/google/uuid"
)

// StorageKey is where the account list lives, as one JSON array.
const StorageKey = "trading_users"

// Store keeps the account list in a storage.Store. Every mutation is a
// read-modify-write of the whole list; callers are expected to be a single
// local user, so no write coordination is attempted.
type Store struct {
	kv    storage.Store
	now   func() time.Time
	newID func() string
}

type Option func(*Store)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(kv storage.Store, opts ...Option) *Store {
	s := &Store{
		kv:    kv,
		now:   time.Now,
		newID: func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns all accounts; an absent list is empty. A list that fails to
// decode is reported as storage.ErrCorrupt.
func (s *Store) List(ctx context.Context) ([]Account, error) {
	var list []Account
	found, err := storage.GetJSON(ctx, s.kv, StorageKey, &list)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	if !found || list == nil {
		return []Account{}, nil
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, list []Account) error {
	if err := storage.SetJSON(ctx, s.kv, StorageKey, list); err != nil {
		return fmt.Errorf("save accounts: %w", err)
	}
	return nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*Account, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(list, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &list[i], nil
}

// GetByUsername matches the username exactly, case included.
func (s *Store) GetByUsername(ctx context.Context, username string) (*Account, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(list, func(a Account) bool { return a.Username == username })
	if i < 0 {
		return nil, ErrNotFound
	}
	return &list[i], nil
}

// NewAccount is the input of Add. Secret is hashed and never stored.
type NewAccount struct {
	Username string
	Secret   []byte
	Validity Validity
}

// Add creates an account. For finite validity ExpiresAt is CreatedAt plus
// the given days.
func (s *Store) Add(ctx context.Context, in NewAccount) (*Account, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrEmptyUsername
	}
	if len(in.Secret) == 0 {
		return nil, ErrEmptySecret
	}

	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if slices.ContainsFunc(list, func(a Account) bool { return a.Username == username }) {
		return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
	}

	hash, err := cryptox.HashSecret(in.Secret)
	if err != nil {
		return nil, err
	}

	now := s.now()
	acc := Account{
		ID:         s.newID(),
		Username:   username,
		SecretHash: hash,
		Validity:   in.Validity,
		CreatedAt:  now,
		ExpiresAt:  expiryFrom(in.Validity, now),
	}

	if err := s.save(ctx, append(list, acc)); err != nil {
		return nil, err
	}
	return &acc, nil
}

// Update is a partial change; nil / empty fields are left untouched.
type Update struct {
	Username *string
	Secret   []byte
	Validity *Validity
	// ResetDevice drops the device binding so the next login re-binds.
	ResetDevice bool
}

// Update merges u into the account with the given id.
//
// A validity change recomputes ExpiresAt from the time of the update, not
// from CreatedAt: changing "30" to "30" on day 29 grants another 30 days.
func (s *Store) Update(ctx context.Context, id string, u Update) (*Account, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(list, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	acc := list[i]

	if u.Username != nil {
		username := strings.TrimSpace(*u.Username)
		if username == "" {
			return nil, ErrEmptyUsername
		}
		taken := slices.ContainsFunc(list, func(a Account) bool { return a.ID != id && a.Username == username })
		if taken {
			return nil, fmt.Errorf("%w: %s", ErrUsernameTaken, username)
		}
		acc.Username = username
	}

	if len(u.Secret) > 0 {
		hash, err := cryptox.HashSecret(u.Secret)
		if err != nil {
			return nil, err
		}
		acc.SecretHash = hash
	}

	if u.Validity != nil {
		acc.Validity = *u.Validity
		acc.ExpiresAt = expiryFrom(acc.Validity, s.now())
	}

	if u.ResetDevice {
		acc.DeviceID = ""
	}

	list[i] = acc
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	list, err := s.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(list, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return ErrNotFound
	}
	return s.save(ctx, slices.Delete(list, i, i+1))
}

// BindDevice records deviceID as the account's device.
func (s *Store) BindDevice(ctx context.Context, id, deviceID string) (*Account, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	i := slices.IndexFunc(list, func(a Account) bool { return a.ID == id })
	if i < 0 {
		return nil, ErrNotFound
	}
	list[i].DeviceID = deviceID
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	acc := list[i]
	return &acc, nil
}

// VerifySecret checks secret against the account's stored hash. A malformed
// hash never matches.
func VerifySecret(a *Account, secret []byte) bool {
	ok, err := cryptox.VerifySecret(a.SecretHash, secret)
	return err == nil && ok
}

// Reset drops the whole account list.
func (s *Store) Reset(ctx context.Context) error {
	return s.kv.Delete(ctx, StorageKey)
}
