// internal/repository/redis/client.go

package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nisargarh/Cab-booking-sub001/internal/config"
	"github.com/nisargarh/Cab-booking-sub001/pkg/logger"
	"github.com/nisargarh/Cab-booking-sub001/pkg/metrics"
)

// NewClient creates a pooled Redis client and checks connectivity.
func NewClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	timeout := time.Duration(cfg.Redis.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	client := redis.NewClient(&redis.Options{
		Addr:            net.JoinHostPort(cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		ReadTimeout:     timeout,
		WriteTimeout:    timeout,
		DialTimeout:     timeout,
		PoolSize:        10,
		MinIdleConns:    2,
		MaxRetries:      3,
		ConnMaxIdleTime: 5 * time.Minute,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		metrics.UpdateStorageConnectionStatus(false)
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	metrics.UpdateStorageConnectionStatus(true)
	logger.Info("Connected to Redis successfully")
	return client, nil
}
