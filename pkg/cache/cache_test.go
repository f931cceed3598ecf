package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exercise runs the behavior every driver shares.
func exercise(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	_, err := c.Get(ctx, "archives")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Set(ctx, "archives", []byte(`[{"slug":"a"}]`), time.Hour))
	got, err := c.Get(ctx, "archives")
	require.NoError(t, err)
	assert.Equal(t, `[{"slug":"a"}]`, string(got))

	require.NoError(t, c.Set(ctx, "archives", []byte(`[]`), time.Hour))
	got, err = c.Get(ctx, "archives")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(got), "set should overwrite")

	require.NoError(t, c.Set(ctx, "keywords", []byte(`["rice"]`), time.Hour))
	require.NoError(t, c.Delete(ctx, "archives"))
	_, err = c.Get(ctx, "archives")
	assert.ErrorIs(t, err, ErrMiss)

	got, err = c.Get(ctx, "keywords")
	require.NoError(t, err, "entries are independent")
	assert.Equal(t, `["rice"]`, string(got))
}

func TestMemory(t *testing.T) {
	m, err := NewMemory(0)
	require.NoError(t, err)
	defer m.Close()

	exercise(t, m)
}

func TestMemoryExpiry(t *testing.T) {
	m, err := NewMemory(4)
	require.NoError(t, err)

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, m.Set(ctx, "archives", []byte("x"), time.Hour))
	require.NoError(t, m.Set(ctx, "keywords", []byte("y"), 2*time.Hour))

	now = now.Add(90 * time.Minute)
	_, err = m.Get(ctx, "archives")
	assert.ErrorIs(t, err, ErrMiss)

	got, err := m.Get(ctx, "keywords")
	require.NoError(t, err)
	assert.Equal(t, "y", string(got))
}

func TestMemoryReturnsCopies(t *testing.T) {
	m, err := NewMemory(4)
	require.NoError(t, err)

	ctx := context.Background()
	value := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", value, 0))
	value[0] = 'z'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))
}

func TestRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis("redis://"+mr.Addr(), "shs:")
	require.NoError(t, err)
	defer r.Close()

	require.NoError(t, r.Ping(context.Background()))
	exercise(t, r)

	assert.True(t, mr.Exists("shs:keywords"), "keys should carry the prefix")
}

func TestRedisExpiry(t *testing.T) {
	mr := miniredis.RunT(t)

	r, err := NewRedis("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "archives", []byte("x"), time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("archives"))

	mr.FastForward(time.Hour + time.Second)
	_, err = r.Get(ctx, "archives")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisConnectionError(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := NewRedis("redis://"+mr.Addr(), "")
	require.NoError(t, err)
	defer r.Close()

	mr.Close()

	_, err = r.Get(context.Background(), "archives")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss, "connection failures are not misses")
}

func TestNewRedisRequiresURL(t *testing.T) {
	_, err := NewRedis("", "")
	assert.Error(t, err)

	_, err = NewRedis("://bad", "")
	assert.Error(t, err)
}

func TestSQLite(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache", "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	exercise(t, s)
}

func TestSQLiteExpiry(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer s.Close()

	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, s.Set(ctx, "archives", []byte("x"), time.Hour))

	now = now.Add(time.Hour)
	_, err = s.Get(ctx, "archives")
	assert.ErrorIs(t, err, ErrMiss)

	// Writing another key purges the expired row.
	require.NoError(t, s.Set(ctx, "keywords", []byte("y"), time.Hour))
	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM cache`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSQLitePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	ctx := context.Background()

	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "archives", []byte("x"), time.Hour))
	require.NoError(t, s.Close())

	s, err = NewSQLite(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, "archives")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestNew(t *testing.T) {
	c, err := New(Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	c, err = New(Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, c)
	require.NoError(t, c.Close())

	mr := miniredis.RunT(t)
	c, err = New(Options{Driver: DriverRedis, URL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)
	require.NoError(t, c.Close())

	_, err = New(Options{Driver: "memcached"})
	assert.Error(t, err)
}
