package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.Set(ctx, "a", "1"))
	require.NoError(t, kv.Set(ctx, "b", "2"))
	require.NoError(t, kv.Set(ctx, "a", "3"))

	v, ok, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "3", v)

	require.NoError(t, kv.Delete(ctx, "a", "b", "never-set"))
	_, ok, err = kv.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemoryKV())
}

func TestMemoryKVHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	kv := NewMemoryKV()
	assert.ErrorIs(t, kv.Set(ctx, "a", "1"), context.Canceled)
	_, _, err := kv.Get(ctx, "a")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRedisKV(t *testing.T) {
	mr := miniredis.RunT(t)
	kv := NewRedisKV(RedisOptions{Addr: mr.Addr()})
	t.Cleanup(func() { _ = kv.Close() })

	require.NoError(t, kv.Ping(context.Background()))
	exerciseKV(t, kv)
}

func TestRedisKVStoreIntegration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	kv := NewRedisKVFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	s := NewStore(kv, nil)
	ctx := context.Background()

	require.NoError(t, s.SetLeads(ctx, nil))
	raw, err := mr.Get(KeyLeads)
	require.NoError(t, err)
	assert.Equal(t, "[]", raw)

	mr.Close()
	assert.Empty(t, s.Leads(ctx))
}

func TestPostgresKV(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	kv := NewPostgresKV(db)
	ctx := context.Background()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS kv_store").WillReturnResult(sqlmock.NewResult(0, 0))
	require.NoError(t, kv.EnsureSchema(ctx))

	mock.ExpectQuery("SELECT value FROM kv_store WHERE key =").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"value"}))
	_, ok, err := kv.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("k", "v").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, kv.Set(ctx, "k", "v"))

	mock.ExpectQuery("SELECT value FROM kv_store WHERE key =").
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow("v"))
	v, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	mock.ExpectExec("DELETE FROM kv_store").
		WithArgs(sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, kv.Delete(ctx, "k"))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresKVErrors(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	kv := NewPostgresKV(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT value FROM kv_store").WillReturnError(errors.New("conn reset"))
	_, _, err = kv.Get(ctx, "k")
	assert.ErrorContains(t, err, "conn reset")

	mock.ExpectExec("INSERT INTO kv_store").WillReturnError(errors.New("disk full"))
	assert.ErrorContains(t, kv.Set(ctx, "k", "v"), "disk full")

	assert.NoError(t, kv.Delete(ctx))
	assert.NoError(t, mock.ExpectationsWereMet())
}
