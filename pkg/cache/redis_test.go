package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a client backed by miniredis
func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client, err := NewClient("redis://" + mr.Addr())
	require.NoError(t, err)

	return client, mr
}

func TestClient_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()

	err := client.Set(ctx, "leads:list", `[{"id":1}]`, time.Minute)
	require.NoError(t, err)

	val, err := client.Get(ctx, "leads:list")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, val)
}

func TestClient_GetMissing(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	_, err := client.Get(context.Background(), "nope")
	assert.True(t, IsMiss(err))
	assert.False(t, IsMiss(nil))
}

func TestClient_Expiration(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "leads:list", "x", 30*time.Second))

	mr.FastForward(31 * time.Second)

	_, err := client.Get(ctx, "leads:list")
	assert.True(t, IsMiss(err))
}

func TestClient_Delete(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx := context.Background()
	_ = client.Set(ctx, "leads:list", "a", time.Hour)
	_ = client.Set(ctx, "leads:other", "b", time.Hour)

	require.NoError(t, client.Delete(ctx, "leads:list"))
	assert.False(t, mr.Exists("leads:list"))
	assert.Equal(t, []string{"leads:other"}, mr.Keys())

	_, err := client.Get(ctx, "leads:list")
	assert.True(t, client.IsMiss(err))
	assert.False(t, client.IsMiss(errors.New("connection refused")))
}

func TestNewClient_Errors(t *testing.T) {
	_, err := NewClient("not a url")
	assert.Error(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	_, err = NewClient("redis://" + addr)
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer client.Close()

	require.NoError(t, client.Ping(context.Background()))
	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}
