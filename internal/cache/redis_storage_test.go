package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ fiber.Storage = (*RedisStorage)(nil)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	s, err := NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestRedisStorage_SetGetDelete(t *testing.T) {
	s, mr := newTestStorage(t)

	val, err := s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, s.Set("10.0.0.1", []byte("3"), time.Minute))
	assert.True(t, mr.Exists(defaultPrefix+"10.0.0.1"))

	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, []byte("3"), val)

	require.NoError(t, s.Delete("10.0.0.1"))
	val, err = s.Get("10.0.0.1")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_Expiry(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, s.Set("k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	val, err := s.Get("k")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestRedisStorage_ResetKeepsForeignKeys(t *testing.T) {
	s, mr := newTestStorage(t)

	require.NoError(t, mr.Set("other:key", "x"))
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, s.Set(k, []byte("1"), 0))
	}

	require.NoError(t, s.Reset())

	for _, k := range []string{"a", "b", "c"} {
		assert.False(t, mr.Exists(defaultPrefix+k))
	}
	assert.True(t, mr.Exists("other:key"))
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("://nope")
	assert.Error(t, err)
}

func TestNew_FromURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	s, err := New("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Set("k", []byte("v"), 0))
	val, err := s.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)
}
