package cli

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/signaldesk/internal/accounts"
	"github.com/dmitrijs2005/signaldesk/internal/auth"
	"github.com/dmitrijs2005/signaldesk/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginCount(result string) float64 {
	return testutil.ToFloat64(metrics.LoginsTotal.WithLabelValues(result))
}

func TestLogin_DemoAccount(t *testing.T) {
	app, out := newTestApp(t)
	stubInputs(t, []string{"demo"}, "demo123")
	before := loginCount("ok")

	require.NoError(t, app.Login(context.Background()))

	assert.Contains(t, out.String(), "Welcome, demo!")
	assert.Contains(t, out.String(), "30 days remaining")
	assert.Equal(t, "(demo)", app.getStatus())
	assert.True(t, app.isLoggedIn(context.Background()))
	assert.Equal(t, before+1, loginCount("ok"))
}

func TestLogin_WrongPassword(t *testing.T) {
	app, out := newTestApp(t)
	stubInputs(t, []string{"demo"}, "nope")
	before := loginCount("invalid_credentials")

	err := app.Login(context.Background())
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	assert.Contains(t, out.String(), "Invalid username or password")
	assert.False(t, app.isLoggedIn(context.Background()))
	assert.Equal(t, before+1, loginCount("invalid_credentials"))
}

func TestLogin_InputError(t *testing.T) {
	app, _ := newTestApp(t)
	stubInputs(t, nil)

	assert.Error(t, app.Login(context.Background()))
}

func TestLogoutAndWhoami(t *testing.T) {
	app, out := newTestApp(t)
	ctx := context.Background()
	stubInputs(t, []string{"trader1"}, "pass123")
	require.NoError(t, app.Login(ctx))

	require.NoError(t, app.Whoami(ctx))
	assert.Contains(t, out.String(), "User:         trader1")
	assert.Contains(t, out.String(), "Subscription: Lifetime access")
	assert.Contains(t, out.String(), "Device:")

	require.NoError(t, app.Logout(ctx))
	assert.Contains(t, out.String(), "Logged out")
	assert.Empty(t, app.getStatus())

	err := app.Whoami(ctx)
	assert.ErrorIs(t, err, auth.ErrNotAuthenticated)
	assert.Contains(t, out.String(), "Please log in first")
}

func TestLoginResult(t *testing.T) {
	assert.Equal(t, "ok", loginResult(nil))
	assert.Equal(t, "invalid_credentials", loginResult(auth.ErrInvalidCredentials))
	assert.Equal(t, "expired", loginResult(auth.ErrSubscriptionExpired))
	assert.Equal(t, "device_mismatch", loginResult(auth.ErrDeviceMismatch))
	assert.Equal(t, "error", loginResult(errors.New("disk full")))
}

// fakeAuth drives error paths the real manager cannot produce on demand.
type fakeAuth struct {
	sess      *auth.Session
	acc       *accounts.Account
	accErr    error
	logoutErr error
	loggedOut bool
}

func (f *fakeAuth) Login(context.Context, string, []byte) (*auth.Session, error) {
	return f.sess, nil
}
func (f *fakeAuth) Logout(context.Context) error {
	f.loggedOut = true
	return f.logoutErr
}
func (f *fakeAuth) Session(context.Context) (*auth.Session, error) { return f.sess, nil }
func (f *fakeAuth) CurrentAccount(context.Context) (*accounts.Account, error) {
	return f.acc, f.accErr
}

func TestWhoami_DeletedAccountEndsSession(t *testing.T) {
	app, out := newTestApp(t)
	f := &fakeAuth{sess: &auth.Session{Username: "ghost"}, accErr: accounts.ErrNotFound}
	app.authService = f

	err := app.Whoami(context.Background())
	assert.ErrorIs(t, err, accounts.ErrNotFound)
	assert.True(t, f.loggedOut)
	assert.Contains(t, out.String(), "User not found")
}

func TestLogout_ErrorPropagates(t *testing.T) {
	app, _ := newTestApp(t)
	app.authService = &fakeAuth{logoutErr: errors.New("clean-fail")}

	assert.Error(t, app.Logout(context.Background()))
}
