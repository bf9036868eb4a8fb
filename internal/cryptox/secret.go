// Package cryptox implements the password handling used by SignalDesk:
// salted argon2id hashes for account secrets and bcrypt for the admin
// master password.
package cryptox

import (
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/signaldesk/internal/common"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// argon2id parameters. Changing them does not invalidate stored hashes: each
// encoded hash carries the parameters it was made with.
const (
	argonTime    uint32 = 1
	argonMemory  uint32 = 64 * 1024
	argonThreads uint8  = 4
	argonKeyLen  uint32 = 32
	saltLen             = 16

	// limits on parameters read back from stored hashes
	maxArgonMemory uint32 = 1 << 20
	maxArgonTime   uint32 = 16
	maxKeyLen             = 128
)

var (
	ErrMalformedHash = errors.New("malformed secret hash")
	ErrEmptySecret   = errors.New("empty secret")
)

var b64 = base64.RawStdEncoding

// DeriveKey stretches secret with salt using argon2id.
func DeriveKey(secret, salt []byte) []byte {
	return argon2.IDKey(secret, salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// HashSecret returns a self-describing argon2id hash of secret in the usual
// PHC form: $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>.
func HashSecret(secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}
	salt := common.GenerateRandByteArray(saltLen)
	key := DeriveKey(secret, salt)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, argonMemory, argonTime, argonThreads,
		b64.EncodeToString(salt), b64.EncodeToString(key)), nil
}

// VerifySecret reports whether secret matches encoded. The comparison is
// constant-time.
func VerifySecret(encoded string, secret []byte) (bool, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[1] != "argon2id" {
		return false, ErrMalformedHash
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return false, ErrMalformedHash
	}

	var (
		memory, time uint32
		threads      uint8
	)
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrMalformedHash
	}
	if time < 1 || time > maxArgonTime || threads < 1 ||
		memory < 8*uint32(threads) || memory > maxArgonMemory {
		return false, ErrMalformedHash
	}

	salt, err := b64.DecodeString(parts[4])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := b64.DecodeString(parts[5])
	if err != nil || len(want) == 0 || len(want) > maxKeyLen {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey(secret, salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}

// HashMasterPassword produces the bcrypt hash an operator puts into the
// admin_password_hash setting.
func HashMasterPassword(password []byte) (string, error) {
	if len(password) == 0 {
		return "", ErrEmptySecret
	}
	h, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckMasterPassword reports whether password matches the bcrypt hash.
func CheckMasterPassword(hash string, password []byte) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), password) == nil
}
