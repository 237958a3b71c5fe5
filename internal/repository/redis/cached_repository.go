// internal/repository/redis/cached_repository.go

package redis

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/cache"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
)

// CachedPreferenceRepository reads through a local cache and writes
// through to the wrapped storage. The cache is only updated after a
// successful write.
type CachedPreferenceRepository struct {
	repo  domain.PreferenceStorage
	cache *cache.LocalCache
}

var _ domain.PreferenceStorage = (*CachedPreferenceRepository)(nil)

func NewCachedPreferenceRepository(repo domain.PreferenceStorage, cache *cache.LocalCache) *CachedPreferenceRepository {
	return &CachedPreferenceRepository{
		repo:  repo,
		cache: cache,
	}
}

func (c *CachedPreferenceRepository) Load(ctx context.Context, key string) ([]byte, error) {
	if data, found := c.cache.Get(key); found {
		logger.WithFields(logrus.Fields{"key": key}).Debug("Cache hit for preference")
		return data, nil
	}

	data, err := c.repo.Load(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrPreferenceNotFound) {
			c.cache.Delete(key)
		}
		return nil, err
	}

	c.cache.Set(key, data, 0)
	return data, nil
}

func (c *CachedPreferenceRepository) Save(ctx context.Context, key string, value []byte) error {
	if err := c.repo.Save(ctx, key, value); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, value, 0)
	return nil
}
