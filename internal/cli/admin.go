package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
	"github.com/dmitrijs2005/signaldesk/internal/admin"
	"github.com/dmitrijs2005/signaldesk/internal/common"
)

var errAdminLocked = errors.New("admin is locked")

// Unlock asks for the master password and keeps the issued admin token.
func (a *App) Unlock(ctx context.Context) error {
	password, err := getPassword(a.out, "Enter master password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	token, err := a.adminService.Unlock(password)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrWrongMasterPassword):
			fmt.Fprintln(a.out, "Invalid master password")
		case errors.Is(err, admin.ErrGateDisabled):
			fmt.Fprintln(a.out, "Admin access is not configured")
		default:
			fmt.Fprintln(a.out, "Error:", err)
		}
		return err
	}

	a.setToken(token)
	a.logger.Info(ctx, "admin unlocked")
	fmt.Fprintln(a.out, "Admin unlocked")
	return nil
}

// Lock forgets the admin token.
func (a *App) Lock(ctx context.Context) error {
	a.setToken("")
	fmt.Fprintln(a.out, "Admin locked")
	return nil
}

// requireAdmin returns the current token or reports that admin is locked.
func (a *App) requireAdmin() (string, error) {
	t := a.token()
	if t == "" {
		fmt.Fprintln(a.out, "Run 'admin' first")
		return "", errAdminLocked
	}
	return t, nil
}

// adminError prints err for the user. An expired or rejected token is
// dropped so the prompt no longer shows admin.
func (a *App) adminError(err error) error {
	switch {
	case errors.Is(err, admin.ErrUnauthorized):
		a.setToken("")
		fmt.Fprintln(a.out, "Admin session expired, run 'admin' again")
	default:
		fmt.Fprintln(a.out, "Error:", err)
	}
	return err
}

// Users prints the account table.
func (a *App) Users(ctx context.Context) error {
	token, err := a.requireAdmin()
	if err != nil {
		return err
	}

	list, err := a.adminService.ListUsers(ctx, token)
	if err != nil {
		return a.adminError(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No users")
		return nil
	}

	now := a.now()
	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tVALIDITY\tSTATUS\tDEVICE\tCREATED")
	for i := range list {
		u := &list[i]
		device := "-"
		if u.DeviceID != "" {
			device = shortID(u.DeviceID)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			u.ID, u.Username, u.Validity, accounts.Status(u, now), device,
			u.CreatedAt.Local().Format("2006-01-02"))
	}
	return tw.Flush()
}

// AddUser prompts for a new account. A blank validity means lifetime.
func (a *App) AddUser(ctx context.Context) error {
	token, err := a.requireAdmin()
	if err != nil {
		return err
	}

	name, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	secret, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	validity, err := getSimpleText(a.reader, "Validity in days, or 'lifetime' (default lifetime)", a.out)
	if err != nil {
		return err
	}
	if strings.TrimSpace(validity) == "" {
		validity = "lifetime"
	}

	acc, err := a.adminService.AddUser(ctx, token, admin.AddInput{Username: name, Secret: secret, Validity: validity})
	if err != nil {
		return a.adminError(err)
	}
	fmt.Fprintf(a.out, "User %s has been added (id %s)\n", acc.Username, acc.ID)
	return nil
}

// EditUser changes the account args[0]. Blank answers keep the current
// value.
func (a *App) EditUser(ctx context.Context, args []string) error {
	token, err := a.requireAdmin()
	if err != nil {
		return err
	}
	id := args[0]

	cur, err := a.adminService.GetUser(ctx, token, id)
	if err != nil {
		return a.adminError(err)
	}

	name, err := getSimpleText(a.reader, fmt.Sprintf("Username (blank keeps %q)", cur.Username), a.out)
	if err != nil {
		return err
	}
	secret, err := getPassword(a.out, "New password (blank keeps current)")
	if err != nil {
		return err
	}
	defer common.WipeByteArray(secret)

	validity, err := getSimpleText(a.reader, fmt.Sprintf("Validity (blank keeps %s)", cur.Validity), a.out)
	if err != nil {
		return err
	}

	reset := false
	if cur.DeviceID != "" {
		if reset, err = confirm(a.reader, "Release device binding?", a.out); err != nil {
			return err
		}
	}

	acc, err := a.adminService.UpdateUser(ctx, token, id, admin.EditInput{
		Username:    name,
		Secret:      secret,
		Validity:    validity,
		ResetDevice: reset,
	})
	if err != nil {
		return a.adminError(err)
	}
	fmt.Fprintf(a.out, "User %s has been updated\n", acc.Username)
	return nil
}

// DeleteUser removes the account args[0] after confirmation.
func (a *App) DeleteUser(ctx context.Context, args []string) error {
	token, err := a.requireAdmin()
	if err != nil {
		return err
	}
	id := args[0]

	cur, err := a.adminService.GetUser(ctx, token, id)
	if err != nil {
		return a.adminError(err)
	}

	ok, err := confirm(a.reader, fmt.Sprintf("Are you sure you want to delete %s?", cur.Username), a.out)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	if err := a.adminService.DeleteUser(ctx, token, id); err != nil {
		return a.adminError(err)
	}
	fmt.Fprintf(a.out, "User %s has been removed\n", cur.Username)
	return nil
}
