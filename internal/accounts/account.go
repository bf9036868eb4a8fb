package accounts

import (
	"math"
	"strconv"
	"time"
)

// Account is a persisted user record. The secret is only ever kept as a
// salted argon2id hash.
type Account struct {
	ID         string     `json:"id"`
	Username   string     `json:"username"`
	SecretHash string     `json:"secretHash"`
	Validity   Validity   `json:"validity"`
	CreatedAt  time.Time  `json:"createdAt"`
	DeviceID   string     `json:"deviceId,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

// expiryFrom returns from plus days of exactly 24h for finite validity, nil
// for lifetime. Calendar days would stretch or shrink across DST changes.
func expiryFrom(v Validity, from time.Time) *time.Time {
	if v.IsLifetime() {
		return nil
	}
	t := from.Add(time.Duration(v.Days()) * 24 * time.Hour)
	return &t
}

// Expired reports whether a finite expiry lies strictly before now.
func (a *Account) Expired(now time.Time) bool {
	return a.ExpiresAt != nil && a.ExpiresAt.Before(now)
}

// SubscriptionState is the coarse status shown to users and admins.
type SubscriptionState string

const (
	StateLifetime SubscriptionState = "lifetime"
	StateActive   SubscriptionState = "active"
	StateExpiring SubscriptionState = "expiring"
	StateExpired  SubscriptionState = "expired"
)

// expiringWithin is how close to expiry an account counts as "expiring".
const expiringWithin = 3

// Subscription describes an account's standing at a point in time.
// DaysLeft is rounded up and only meaningful for finite validity.
type Subscription struct {
	State    SubscriptionState
	DaysLeft int
}

func (s Subscription) String() string {
	switch s.State {
	case StateLifetime:
		return "Lifetime access"
	case StateExpired:
		return "Expired"
	}
	if s.DaysLeft == 1 {
		return "1 day remaining"
	}
	return strconv.Itoa(s.DaysLeft) + " days remaining"
}

// Status computes the subscription standing of a at now.
func Status(a *Account, now time.Time) Subscription {
	if a.ExpiresAt == nil {
		return Subscription{State: StateLifetime}
	}
	if a.Expired(now) {
		return Subscription{State: StateExpired}
	}
	left := int(math.Ceil(a.ExpiresAt.Sub(now).Hours() / 24))
	if left <= expiringWithin {
		return Subscription{State: StateExpiring, DaysLeft: left}
	}
	return Subscription{State: StateActive, DaysLeft: left}
}
