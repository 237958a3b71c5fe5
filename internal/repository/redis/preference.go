// internal/repository/redis/preference.go

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/nisargarh/Cab-booking-sub001/internal/domain"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	"github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
	"github.com/nisargarh/Cab-booking-sub001/pkg/utils"
)

// PreferenceRepository stores serialized preferences as plain Redis strings
// without expiry.
type PreferenceRepository struct {
	client *redis.Client
	keyMgr *utils.RedisKeyManager
}

var _ domain.PreferenceStorage = (*PreferenceRepository)(nil)

func NewPreferenceRepository(client *redis.Client, keyMgr *utils.RedisKeyManager) *PreferenceRepository {
	return &PreferenceRepository{
		client: client,
		keyMgr: keyMgr,
	}
}

func (r *PreferenceRepository) Load(ctx context.Context, key string) ([]byte, error) {
	defer metrics.RecordStorageOperation("load", "redis", time.Now())

	redisKey := r.keyMgr.GetKey(key)
	data, err := r.client.Get(ctx, redisKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("failed to get preference %s from Redis: %w", key, err)
	}

	if logger.GetLogger().IsLevelEnabled(logrus.DebugLevel) {
		logger.WithFields(logrus.Fields{"key": key}).Debug(r.keyMgr.DebugKeyTransformation(key))
	}
	return data, nil
}

func (r *PreferenceRepository) Save(ctx context.Context, key string, value []byte) error {
	defer metrics.RecordStorageOperation("save", "redis", time.Now())

	redisKey := r.keyMgr.GetKey(key)
	if err := r.client.Set(ctx, redisKey, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to store preference %s in Redis: %w", key, err)
	}

	logger.WithFields(logrus.Fields{"key": key}).Debug("Stored preference in Redis")
	return nil
}

// Keys lists the Redis keys under the configured prefix.
func (r *PreferenceRepository) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.keyMgr.GetKeyPattern(), 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan preference keys: %w", err)
	}
	return keys, nil
}

// Ping checks Redis connectivity and updates the connection gauge.
func (r *PreferenceRepository) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	err := r.client.Ping(pingCtx).Err()
	metrics.UpdateStorageConnectionStatus(err == nil)
	return err
}

func (r *PreferenceRepository) Close() error {
	return r.client.Close()
}
