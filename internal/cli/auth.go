package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
	"github.com/dmitrijs2005/signaldesk/internal/auth"
	"github.com/dmitrijs2005/signaldesk/internal/common"
	"github.com/dmitrijs2005/signaldesk/internal/metrics"
)

// getSimpleText, getPassword and confirm are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	confirm       = Confirm
)

// loginResult maps a login error to the metrics label.
func loginResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.Is(err, auth.ErrSubscriptionExpired):
		return "expired"
	case errors.Is(err, auth.ErrDeviceMismatch):
		return "device_mismatch"
	default:
		return "error"
	}
}

// Login prompts for a username and password and opens a session bound to
// this device. Refusals are printed with their user-facing reason and
// returned.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	sess, err := a.authService.Login(ctx, userName, password)
	metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		fmt.Fprintln(a.out, auth.Reason(err))
		return err
	}

	a.setUserName(sess.Username)
	fmt.Fprintf(a.out, "Welcome, %s!\n", sess.Username)
	if acc, err := a.authService.CurrentAccount(ctx); err == nil {
		fmt.Fprintln(a.out, accounts.Status(acc, a.now()))
	}
	return nil
}

// Logout clears the persisted session.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		fmt.Fprintln(a.out, auth.Reason(err))
		return err
	}
	a.setUserName("")
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints the session user, its subscription standing and the device
// the account is bound to.
func (a *App) Whoami(ctx context.Context) error {
	acc, err := a.authService.CurrentAccount(ctx)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			// the account was deleted under a live session
			_ = a.authService.Logout(ctx)
			a.setUserName("")
		}
		fmt.Fprintln(a.out, auth.Reason(err))
		return err
	}

	fmt.Fprintf(a.out, "User:         %s\n", acc.Username)
	fmt.Fprintf(a.out, "Subscription: %s\n", accounts.Status(acc, a.now()))
	if acc.ExpiresAt != nil {
		fmt.Fprintf(a.out, "Expires:      %s\n", acc.ExpiresAt.Local().Format("2006-01-02 15:04"))
	}
	if acc.DeviceID != "" {
		fmt.Fprintf(a.out, "Device:       %s\n", shortID(acc.DeviceID))
	}
	return nil
}

func shortID(s string) string {
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
