package accounts

import (
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidity_JSON(t *testing.T) {
	b, err := json.Marshal(Lifetime())
	require.NoError(t, err)
	assert.JSONEq(t, `"lifetime"`, string(b))

	b, err = json.Marshal(Days(14))
	require.NoError(t, err)
	assert.JSONEq(t, `14`, string(b))

	var v Validity
	require.NoError(t, json.Unmarshal([]byte(`"lifetime"`), &v))
	assert.True(t, v.IsLifetime())
	require.NoError(t, json.Unmarshal([]byte(`7`), &v))
	assert.Equal(t, 7, v.Days())

	for _, bad := range []string{`"forever"`, `0`, `-3`, `1.5`, `true`} {
		assert.ErrorIs(t, json.Unmarshal([]byte(bad), &v), ErrInvalidValidity, bad)
	}
}

func TestParseValidity(t *testing.T) {
	v, err := ParseValidity(" Lifetime ")
	require.NoError(t, err)
	assert.True(t, v.IsLifetime())

	v, err = ParseValidity("30")
	require.NoError(t, err)
	assert.Equal(t, Days(30), v)
	assert.Equal(t, "30 days", v.String())
	assert.Equal(t, "1 day", Days(1).String())

	_, err = ParseValidity("0")
	assert.ErrorIs(t, err, ErrInvalidValidity)
	_, err = ParseValidity("month")
	assert.ErrorIs(t, err, ErrInvalidValidity)
}

func TestStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time { x := now.Add(d); return &x }

	tests := []struct {
		name string
		exp  *time.Time
		want Subscription
		text string
	}{
		{"lifetime", nil, Subscription{State: StateLifetime}, "Lifetime access"},
		{"active", at(10 * 24 * time.Hour), Subscription{State: StateActive, DaysLeft: 10}, "10 days remaining"},
		{"partial day rounds up", at(36 * time.Hour), Subscription{State: StateExpiring, DaysLeft: 2}, "2 days remaining"},
		{"last day", at(time.Hour), Subscription{State: StateExpiring, DaysLeft: 1}, "1 day remaining"},
		{"expired", at(-time.Second), Subscription{State: StateExpired}, "Expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Status(&Account{ExpiresAt: tt.exp}, now)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.text, got.String())
		})
	}
}

func TestExpired_IsStrict(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	a := &Account{ExpiresAt: &now}
	assert.False(t, a.Expired(now))
	assert.True(t, a.Expired(now.Add(time.Nanosecond)))
	assert.False(t, (&Account{}).Expired(now))
}

func TestExpiryFrom_FixedLengthDays(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// the night of 2025-03-09 is 23h long in New York
	from := time.Date(2025, 3, 8, 12, 0, 0, 0, ny)
	exp := expiryFrom(Days(2), from)
	require.NotNil(t, exp)
	assert.Equal(t, 48*time.Hour, exp.Sub(from))

	assert.Nil(t, expiryFrom(Lifetime(), from))
}
