// Package admin guards account management behind a master password.
//
// Unlocking with the master password yields a short-lived HS256 token; every
// admin operation takes that token instead of the password.
package admin

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/signaldesk/internal/cryptox"
	"github.com/golang-jwt/jwt/v5"
)

const subject = "admin"

type Claims struct {
	jwt.RegisteredClaims
}

type Gate struct {
	passwordHash string
	secret       []byte
	ttl          time.Duration
	now          func() time.Time
}

// NewGate returns a gate checking passwords against the bcrypt passwordHash
// and signing tokens with secret. An empty hash disables admin access.
func NewGate(passwordHash string, secret []byte, ttl time.Duration) *Gate {
	return &Gate{passwordHash: passwordHash, secret: secret, ttl: ttl, now: time.Now}
}

// Unlock exchanges the master password for an admin token.
func (g *Gate) Unlock(password []byte) (string, error) {
	if g.passwordHash == "" {
		return "", ErrGateDisabled
	}
	if !cryptox.CheckMasterPassword(g.passwordHash, password) {
		return "", ErrWrongMasterPassword
	}

	now := g.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.ttl)),
		},
	})

	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("sign admin token: %w", err)
	}
	return signed, nil
}

// Authorize checks that token is a live admin token issued by this gate.
func (g *Gate) Authorize(token string) error {
	if token == "" {
		return ErrUnauthorized
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return g.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
		jwt.WithSubject(subject),
	)
	if err != nil {
		return errors.Join(ErrUnauthorized, err)
	}
	if !parsed.Valid {
		return ErrUnauthorized
	}
	return nil
}
