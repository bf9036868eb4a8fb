package storage

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore_Contract(t *testing.T) {
	runStoreContract(t, openTestSQLite(t))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "signaldesk.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "trading_session", []byte(`{"username":"demo"}`)))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Get(ctx, "trading_session")
	require.NoError(t, err)
	require.Equal(t, []byte(`{"username":"demo"}`), v)
}

func TestOpenSQLite_CreatesParentDir(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state", "signaldesk.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestSQLiteStore_ErrorsAreWrapped(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.db.Close())

	_, err := s.Get(ctx, "k")
	require.ErrorContains(t, err, "failed to get kv[k]")

	err = s.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set kv[k]")

	err = s.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete kv[k]")

	err = s.SetMany(ctx, map[string][]byte{"k": nil})
	require.Error(t, err)
}

func TestSQLiteStore_SetManyRollsBack(t *testing.T) {
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	// a CHECK constraint lets the second write fail inside the transaction
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value BLOB NOT NULL CHECK (length(value) < 4))`)
	require.NoError(t, err)

	s := NewSQLiteStore(db)
	ctx := context.Background()

	err = s.SetMany(ctx, map[string][]byte{"a": []byte("ok"), "b": []byte("too long")})
	require.ErrorContains(t, err, "failed to set kv[b]")

	v, err := s.Get(ctx, "a")
	require.NoError(t, err)
	require.Nil(t, v)
}
