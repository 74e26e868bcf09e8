package preferences

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()
	key := UserKey(uuid.NewString(), DarkMode)

	_, err := store.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
	assert.False(t, GetBool(ctx, store, key))

	require.NoError(t, SetBool(ctx, store, key, true, 0))
	assert.True(t, GetBool(ctx, store, key))

	require.NoError(t, SetBool(ctx, store, key, false, 0))
	assert.False(t, GetBool(ctx, store, key))

	require.NoError(t, store.Set(ctx, key, "value", time.Minute))
	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "value", got)

	require.NoError(t, store.Delete(ctx, key))
	_, err = store.Get(ctx, key)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, store.Delete(ctx, key))
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()
	key := SessionKey("sid", APIKeyValidated)

	require.NoError(t, SetBool(ctx, store, key, true, time.Hour))
	assert.True(t, GetBool(ctx, store, key))

	now = now.Add(time.Hour)
	assert.False(t, GetBool(ctx, store, key))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "user:u1:sidebar_collapsed", UserKey("u1", SidebarCollapsed))
	assert.Equal(t, "session:s1:api_key", SessionKey("s1", APIKey))
}

func TestRedisStore(t *testing.T) {
	url := os.Getenv("TEST_REDIS_URL")
	if url == "" {
		t.Skip("TEST_REDIS_URL not set")
	}
	store, err := NewRedisStore(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	exerciseStore(t, store)
}

func TestMemoryStoreSweep(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "short", "1", time.Minute))
	require.NoError(t, store.Set(ctx, "long", "1", time.Hour))
	require.NoError(t, store.Set(ctx, "forever", "1", 0))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 0, store.Sweep())

	_, err := store.Get(ctx, "long")
	require.NoError(t, err)
	_, err = store.Get(ctx, "forever")
	require.NoError(t, err)
}

type countingSweeper struct {
	calls chan struct{}
}

func (c *countingSweeper) Sweep() int {
	select {
	case c.calls <- struct{}{}:
	default:
	}
	return 0
}

func TestJanitorSweepsUntilStopped(t *testing.T) {
	sweeper := &countingSweeper{calls: make(chan struct{}, 1)}
	j := NewJanitor(sweeper, 10*time.Millisecond)
	j.Start()
	defer j.Stop()

	select {
	case <-sweeper.calls:
	case <-time.After(time.Second):
		t.Fatal("janitor never swept")
	}

	j.Stop()
	j.Stop()
}
