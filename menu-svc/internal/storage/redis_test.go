package storage

import (
	"context"
	"testing"
	"time"

	"qr-menu/menu-svc/internal/domain"
	"qr-menu/menu-svc/internal/menu"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCache_PublicMenu(t *testing.T) {
	mr, client := setupRedis(t)
	cache := NewRedisCache(client, time.Minute)
	ctx := context.Background()

	_, ok, err := cache.GetPublicMenu(ctx, "r1")
	require.NoError(t, err)
	assert.False(t, ok)

	pm := menu.RenderPublic(&domain.Restaurant{ID: "r1", Name: "Cafe", MenuSections: []domain.MenuSection{{
		ID: "s1", Name: "Mains", Items: []domain.MenuItem{{ID: "i1", Name: "Soup", Price: domain.Float(4)}},
	}}})
	require.NoError(t, cache.SetPublicMenu(ctx, "r1", &pm))
	assert.Equal(t, time.Minute, mr.TTL("menu:public:r1"))

	got, ok, err := cache.GetPublicMenu(ctx, "r1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Cafe", got.Name)
	assert.Equal(t, "Soup", got.Sections[0].Items[0].Name)

	require.NoError(t, cache.Invalidate(ctx, "r1"))
	assert.False(t, mr.Exists("menu:public:r1"))
}

func TestRedisDraftStore_RoundTrip(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisDraftStore(client, time.Hour)
	ctx := context.Background()

	b, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, b)

	builder := menu.NewBuilder(nil)
	sec, err := builder.SaveSection("", "Starters")
	require.NoError(t, err)
	_, err = builder.OpenItemDialog(sec.ID, "")
	require.NoError(t, err)

	require.NoError(t, store.Store(ctx, "r1", builder))
	assert.Equal(t, time.Hour, mr.TTL("menu:draft:r1"))

	loaded, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.Dirty)
	assert.Equal(t, builder.Revision, loaded.Revision)
	assert.Equal(t, "Starters", loaded.Sections[0].Name)
	require.NotNil(t, loaded.Draft)
	assert.Equal(t, sec.ID, loaded.Draft.SectionID)

	require.NoError(t, store.Drop(ctx, "r1"))
	loaded, err = store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisDraftStore_Unavailable(t *testing.T) {
	mr, client := setupRedis(t)
	store := NewRedisDraftStore(client, time.Hour)
	mr.Close()

	_, err := store.Load(context.Background(), "r1")
	assert.Error(t, err)
}
