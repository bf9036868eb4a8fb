package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashSecret_RoundTrip(t *testing.T) {
	h, err := HashSecret([]byte("demo123"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=65536,t=1,p=4$"))
	assert.NotContains(t, h, "demo123")

	ok, err := VerifySecret(h, []byte("demo123"))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifySecret(h, []byte("demo124"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashSecret_SaltedPerCall(t *testing.T) {
	a, err := HashSecret([]byte("pass123"))
	require.NoError(t, err)
	b, err := HashSecret([]byte("pass123"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashSecret_Empty(t *testing.T) {
	_, err := HashSecret(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestVerifySecret_Malformed(t *testing.T) {
	tests := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$AAAA$AAAA",
		"$argon2id$v=18$m=65536,t=1,p=4$AAAA$AAAA",
		"$argon2id$v=19$garbage$AAAA$AAAA",
		"$argon2id$v=19$m=65536,t=1,p=4$!!!$AAAA",
		"$argon2id$v=19$m=65536,t=1,p=4$AAAA$",
		"$argon2id$v=19$m=65536,t=0,p=4$AAAA$AAAA",
		"$argon2id$v=19$m=65536,t=1,p=0$AAAA$AAAA",
		"$argon2id$v=19$m=16,t=1,p=4$AAAA$AAAA",
		"$argon2id$v=19$m=4194304,t=1,p=4$AAAA$AAAA",
		"$argon2id$v=19$m=65536,t=1000,p=4$AAAA$AAAA",
		"$argon2id$v=19$m=65536,t=1,p=4$AAAA$" + strings.Repeat("A", 268),
	}
	for _, in := range tests {
		ok, err := VerifySecret(in, []byte("x"))
		assert.ErrorIs(t, err, ErrMalformedHash, in)
		assert.False(t, ok)
	}
}

func TestDeriveKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	a := DeriveKey([]byte("pw"), salt)
	b := DeriveKey([]byte("pw"), salt)
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestMasterPassword(t *testing.T) {
	h, err := HashMasterPassword([]byte("admin2024"))
	require.NoError(t, err)
	_, err = bcrypt.Cost([]byte(h))
	require.NoError(t, err)

	assert.True(t, CheckMasterPassword(h, []byte("admin2024")))
	assert.False(t, CheckMasterPassword(h, []byte("admin2025")))
	assert.False(t, CheckMasterPassword("", []byte("admin2024")))

	_, err = HashMasterPassword(nil)
	assert.ErrorIs(t, err, ErrEmptySecret)
}
