package auth

import (
	"errors"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
)

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrSubscriptionExpired = errors.New("subscription expired")
	ErrDeviceMismatch      = errors.New("account is bound to another device")
	ErrNotAuthenticated    = errors.New("not authenticated")
)

// Reason turns a login or session error into the message shown to the user.
func Reason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid username or password"
	case errors.Is(err, ErrSubscriptionExpired):
		return "Your subscription has expired. Please contact admin."
	case errors.Is(err, ErrDeviceMismatch):
		return "This account is already in use on another device"
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first"
	case errors.Is(err, accounts.ErrNotFound):
		return "User not found"
	default:
		return "Something went wrong: " + err.Error()
	}
}
