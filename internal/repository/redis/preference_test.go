package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nisargarh/Cab-booking-sub001/internal/config"
	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/cache"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

func setupRepository(t *testing.T, keyCfg utils.RedisKeyConfig) (*PreferenceRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	repo := NewPreferenceRepository(client, utils.NewRedisKeyManager(keyCfg))
	t.Cleanup(func() { repo.Close() })
	return repo, mr
}

func TestPreferenceRepository_LoadMissing(t *testing.T) {
	repo, _ := setupRepository(t, utils.RedisKeyConfig{KeyPrefix: "cab:prefs"})

	_, err := repo.Load(context.Background(), domain.ThemeKey)
	assert.ErrorIs(t, err, domain.ErrPreferenceNotFound)
}

func TestPreferenceRepository_SaveAndLoad(t *testing.T) {
	repo, mr := setupRepository(t, utils.RedisKeyConfig{KeyPrefix: "cab:prefs"})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.RoleKey, []byte(`"driver"`)))

	stored, err := mr.Get("cab:prefs:user_role")
	require.NoError(t, err)
	assert.Equal(t, `"driver"`, stored)
	assert.Zero(t, mr.TTL("cab:prefs:user_role"), "preferences never expire")

	got, err := repo.Load(ctx, domain.RoleKey)
	require.NoError(t, err)
	assert.Equal(t, []byte(`"driver"`), got)
}

func TestPreferenceRepository_HashedKeys(t *testing.T) {
	repo, mr := setupRepository(t, utils.RedisKeyConfig{KeyPrefix: "cab", HashKeys: true})
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, domain.ThemeKey, []byte(`"dark"`)))
	assert.False(t, mr.Exists("cab:theme"))

	keys, err := repo.Keys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.NotContains(t, keys[0], domain.ThemeKey)
}

func TestPreferenceRepository_Unavailable(t *testing.T) {
	repo, mr := setupRepository(t, utils.RedisKeyConfig{})
	ctx := context.Background()
	mr.Close()

	err := repo.Save(ctx, domain.ThemeKey, []byte(`"dark"`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPreferenceNotFound)

	_, err = repo.Load(ctx, domain.ThemeKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrPreferenceNotFound)

	assert.Error(t, repo.Ping(ctx))
}

func TestPreferenceRepository_Ping(t *testing.T) {
	repo, _ := setupRepository(t, utils.RedisKeyConfig{})
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Redis.Host = mr.Host()
	cfg.Redis.Port = mr.Port()
	cfg.Redis.Timeout = 1

	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	cfg := &config.Config{}
	cfg.Redis.Host = host
	cfg.Redis.Port = port
	cfg.Redis.Timeout = 1

	_, err := NewClient(context.Background(), cfg)
	assert.Error(t, err)
}

type countingStorage struct {
	domain.PreferenceStorage
	loads   int
	saveErr error
}

func (c *countingStorage) Load(ctx context.Context, key string) ([]byte, error) {
	c.loads++
	return c.PreferenceStorage.Load(ctx, key)
}

func (c *countingStorage) Save(ctx context.Context, key string, value []byte) error {
	if c.saveErr != nil {
		return c.saveErr
	}
	return c.PreferenceStorage.Save(ctx, key, value)
}

func TestCachedPreferenceRepository(t *testing.T) {
	repo, _ := setupRepository(t, utils.RedisKeyConfig{KeyPrefix: "cab"})
	local := cache.NewLocalCache(cache.Options{})
	defer local.Stop()

	backend := &countingStorage{PreferenceStorage: repo}
	cached := NewCachedPreferenceRepository(backend, local)
	ctx := context.Background()

	_, err := cached.Load(ctx, domain.ThemeKey)
	assert.ErrorIs(t, err, domain.ErrPreferenceNotFound)

	require.NoError(t, cached.Save(ctx, domain.ThemeKey, []byte(`"dark"`)))

	got, err := cached.Load(ctx, domain.ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, `"dark"`, string(got))
	assert.Equal(t, 1, backend.loads, "second load is served from cache")
	assert.Equal(t, int64(1), local.GetMetrics().Hits)
}

func TestCachedPreferenceRepository_FailedSaveInvalidates(t *testing.T) {
	repo, _ := setupRepository(t, utils.RedisKeyConfig{})
	local := cache.NewLocalCache(cache.Options{})
	defer local.Stop()

	backend := &countingStorage{PreferenceStorage: repo}
	cached := NewCachedPreferenceRepository(backend, local)
	ctx := context.Background()

	require.NoError(t, cached.Save(ctx, domain.RoleKey, []byte(`"rider"`)))

	backend.saveErr = errors.New("READONLY")
	assert.Error(t, cached.Save(ctx, domain.RoleKey, []byte(`"driver"`)))

	got, err := cached.Load(ctx, domain.RoleKey)
	require.NoError(t, err)
	assert.Equal(t, `"rider"`, string(got))
	assert.Equal(t, 1, backend.loads)
}
