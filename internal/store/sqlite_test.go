package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_GetMissing(t *testing.T) {
	st := newTestSQLiteStore(t)

	data, err := st.Get(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestSQLite_PutAndGet(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "leadgen_leads", []byte(`[{"id":"1"}]`)))

	data, err := st.Get(ctx, "leadgen_leads")
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"1"}]`, string(data))
}

func TestSQLite_PutOverwrites(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	require.NoError(t, st.Put(ctx, "k", []byte("original")))
	require.NoError(t, st.Put(ctx, "k", []byte("updated")))

	data, err := st.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "updated", string(data))
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_PersistsAcrossReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	require.NoError(t, st.Put(ctx, "k", []byte("durable")))
	require.NoError(t, st.Close())

	st2, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st2.Close() }) //nolint:errcheck
	require.NoError(t, st2.Migrate(ctx))

	data, err := st2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "durable", string(data))
}

func TestSQLite_ClosedStoreErrors(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Close())

	_, err := st.Get(context.Background(), "k")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: get k")

	err = st.Put(context.Background(), "k", []byte("v"))
	require.Error(t, err)
}
