package auth

import (
	"encoding/json"
	"fmt"
	"time"
)

// SessionKey is the storage key of the single session slot.
const SessionKey = "trading_session"

// Expiry is a session's expiry marker: lifetime or a fixed instant.
type Expiry struct {
	At *time.Time
}

func (e Expiry) IsLifetime() bool { return e.At == nil }

// Before reports whether a finite expiry lies strictly before t.
func (e Expiry) Before(t time.Time) bool {
	return e.At != nil && e.At.Before(t)
}

func (e Expiry) String() string {
	if e.At == nil {
		return "lifetime"
	}
	return e.At.Format(time.RFC3339)
}

func (e Expiry) MarshalJSON() ([]byte, error) {
	if e.At == nil {
		return json.Marshal("lifetime")
	}
	return json.Marshal(e.At.Format(time.RFC3339Nano))
}

func (e *Expiry) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "lifetime" {
		e.At = nil
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("session expiry: %w", err)
	}
	e.At = &t
	return nil
}

// Session is the persisted record of the logged-in user.
type Session struct {
	UserID    string `json:"userId"`
	Username  string `json:"username"`
	ExpiresAt Expiry `json:"expiresAt"`
	DeviceID  string `json:"deviceId"`
}
