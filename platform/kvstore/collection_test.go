package kvstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func newCollection(t *testing.T) *Collection[note] {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCollection[note](client, "test", "notes")
}

func TestCollectionKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	c := newCollection(t)

	require.NoError(t, c.Put(ctx, "b", note{ID: "b", Text: "first"}))
	require.NoError(t, c.Put(ctx, "a", note{ID: "a", Text: "second"}))
	require.NoError(t, c.Put(ctx, "b", note{ID: "b", Text: "first, edited"}))

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []note{{ID: "b", Text: "first, edited"}, {ID: "a", Text: "second"}}, all)
}

func TestCollectionDelete(t *testing.T) {
	ctx := context.Background()
	c := newCollection(t)
	require.NoError(t, c.Put(ctx, "a", note{ID: "a"}))

	existed, err := c.Delete(ctx, "a")
	require.NoError(t, err)
	assert.True(t, existed)

	existed, err = c.Delete(ctx, "a")
	require.NoError(t, err)
	assert.False(t, existed)

	all, err := c.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestParseOptionsInsecureTLS(t *testing.T) {
	opt, err := ParseOptions("rediss://localhost:6380/0", true)
	require.NoError(t, err)
	require.NotNil(t, opt.TLSConfig)
	assert.True(t, opt.TLSConfig.InsecureSkipVerify)

	opt, err = ParseOptions("redis://localhost:6379/1", false)
	require.NoError(t, err)
	assert.Nil(t, opt.TLSConfig)
	assert.Equal(t, 1, opt.DB)
}
