package storage

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/math-battle/internal/game"
	"github.com/palemoky/math-battle/internal/protocol/codec"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client)
	return store, mr
}

func testSnapshot(code string) codec.Snapshot {
	s, _ := game.Start([]string{"Alice", "Bob"}, rand.New(rand.NewPCG(1, 1)))
	s, _ = s.Flip(3)
	return codec.Snapshot{RoomCode: code, State: s}
}

func TestRedisStore_SaveLoadDeleteRoom(t *testing.T) {
	t.Parallel()

	store, _ := newTestRedisStore(t)
	ctx := context.Background()
	snap := testSnapshot("123456")

	// Save
	err := store.SaveRoom(ctx, snap)
	assert.NoError(t, err)

	// Load
	loaded, err := store.LoadRoom(ctx, "123456")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, snap.RoomCode, loaded.RoomCode)
	assert.Equal(t, snap.State, loaded.State)
	assert.False(t, loaded.SavedAt.IsZero())

	// Delete
	err = store.DeleteRoom(ctx, "123456")
	assert.NoError(t, err)

	// Verify Delete
	loaded, err = store.LoadRoom(ctx, "123456")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Expiration(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, testSnapshot("111111")))
	assert.Equal(t, roomExpiration, mr.TTL(roomKeyPrefix+"111111"))

	mr.FastForward(roomExpiration + time.Second)
	loaded, err := store.LoadRoom(ctx, "111111")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_LoadCorrupt(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	require.NoError(t, mr.Set(roomKeyPrefix+"222222", "\x1a\x05ab"))

	_, err := store.LoadRoom(context.Background(), "222222")
	assert.Error(t, err)
}

func TestRedisStore_RoomCodes(t *testing.T) {
	t.Parallel()

	store, mr := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRoom(ctx, testSnapshot("111111")))
	require.NoError(t, store.SaveRoom(ctx, testSnapshot("222222")))
	require.NoError(t, mr.Set("other:key", "x"))

	codes, err := store.RoomCodes(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"111111", "222222"}, codes)
	assert.NoError(t, store.Ping(ctx))
}

func TestRedisStore_NilClient(t *testing.T) {
	t.Parallel()

	store := NewRedisStore(nil)
	ctx := context.Background()

	assert.False(t, store.Enabled())
	assert.NoError(t, store.SaveRoom(ctx, testSnapshot("123456")))
	loaded, err := store.LoadRoom(ctx, "123456")
	assert.NoError(t, err)
	assert.Nil(t, loaded)
	assert.NoError(t, store.DeleteRoom(ctx, "123456"))
	codes, err := store.RoomCodes(ctx)
	assert.NoError(t, err)
	assert.Empty(t, codes)
	assert.NoError(t, store.Ping(ctx))
}
