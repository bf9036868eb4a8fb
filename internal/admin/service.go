package admin

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
)

// UserManager is the account CRUD the admin surface drives.
type UserManager interface {
	AddUser(ctx context.Context, in accounts.NewAccount) (*accounts.Account, error)
	UpdateUser(ctx context.Context, id string, u accounts.Update) (*accounts.Account, error)
	DeleteUser(ctx context.Context, id string) error
	GetUserByID(ctx context.Context, id string) (*accounts.Account, error)
	ListUsers(ctx context.Context) ([]accounts.Account, error)
}

type Service struct {
	gate  *Gate
	users UserManager
}

func NewService(gate *Gate, users UserManager) *Service {
	return &Service{gate: gate, users: users}
}

func (s *Service) Unlock(password []byte) (string, error) {
	return s.gate.Unlock(password)
}

func (s *Service) ListUsers(ctx context.Context, token string) ([]accounts.Account, error) {
	if err := s.gate.Authorize(token); err != nil {
		return nil, err
	}
	return s.users.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, token, id string) (*accounts.Account, error) {
	if err := s.gate.Authorize(token); err != nil {
		return nil, err
	}
	return s.users.GetUserByID(ctx, id)
}

// AddInput is the add form. Validity is "lifetime" or a day count.
type AddInput struct {
	Username string
	Secret   []byte
	Validity string
}

func (s *Service) AddUser(ctx context.Context, token string, in AddInput) (*accounts.Account, error) {
	if err := s.gate.Authorize(token); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Username) == "" {
		return nil, accounts.ErrEmptyUsername
	}
	if len(in.Secret) == 0 {
		return nil, accounts.ErrEmptySecret
	}
	v, err := accounts.ParseValidity(in.Validity)
	if err != nil {
		return nil, err
	}
	return s.users.AddUser(ctx, accounts.NewAccount{Username: in.Username, Secret: in.Secret, Validity: v})
}

// EditInput is the edit form. Empty fields keep the current value.
type EditInput struct {
	Username    string
	Secret      []byte
	Validity    string
	ResetDevice bool
}

func (s *Service) UpdateUser(ctx context.Context, token, id string, in EditInput) (*accounts.Account, error) {
	if err := s.gate.Authorize(token); err != nil {
		return nil, err
	}

	var u accounts.Update
	if name := strings.TrimSpace(in.Username); name != "" {
		u.Username = &name
	}
	if len(in.Secret) > 0 {
		u.Secret = in.Secret
	}
	if strings.TrimSpace(in.Validity) != "" {
		v, err := accounts.ParseValidity(in.Validity)
		if err != nil {
			return nil, err
		}
		u.Validity = &v
	}
	u.ResetDevice = in.ResetDevice

	return s.users.UpdateUser(ctx, id, u)
}

func (s *Service) DeleteUser(ctx context.Context, token, id string) error {
	if err := s.gate.Authorize(token); err != nil {
		return err
	}
	return s.users.DeleteUser(ctx, id)
}
