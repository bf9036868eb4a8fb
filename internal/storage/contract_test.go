package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runStoreContract checks the behaviour every backend promises.
func runStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing key is nil, nil", func(t *testing.T) {
		v, err := s.Get(ctx, "absent")
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "trading_users", []byte(`[]`)))
		v, err := s.Get(ctx, "trading_users")
		require.NoError(t, err)
		assert.Equal(t, []byte(`[]`), v)
	})

	t.Run("set overwrites", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "k", []byte("old")))
		require.NoError(t, s.Set(ctx, "k", []byte("new")))
		v, err := s.Get(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, "x", []byte{1}))
		require.NoError(t, s.Delete(ctx, "x"))
		v, err := s.Get(ctx, "x")
		require.NoError(t, err)
		assert.Nil(t, v)
		require.NoError(t, s.Delete(ctx, "x"))
	})

	t.Run("set many", func(t *testing.T) {
		require.NoError(t, s.SetMany(ctx, map[string][]byte{
			"trading_session":   []byte(`{"userId":"1"}`),
			"deviceFingerprint": []byte(`"abc"`),
		}))
		v, err := s.Get(ctx, "trading_session")
		require.NoError(t, err)
		assert.Equal(t, []byte(`{"userId":"1"}`), v)
		v, err = s.Get(ctx, "deviceFingerprint")
		require.NoError(t, err)
		assert.Equal(t, []byte(`"abc"`), v)
	})
}

func TestMemoryStore_Contract(t *testing.T) {
	runStoreContract(t, NewMemoryStore())
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	in := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", in))
	in[0] = 'X'

	out, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), out)

	out[1] = 'Y'
	again, _ := s.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), again)
	require.NoError(t, s.Close())
}
