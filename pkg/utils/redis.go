// pkg/utils/redis.go

package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// RedisKeyConfig holds configuration for Redis key generation
type RedisKeyConfig struct {
	HashKeys  bool
	KeyPrefix string
}

// RedisKeyManager maps preference keys to Redis keys
type RedisKeyManager struct {
	config RedisKeyConfig
}

func NewRedisKeyManager(config RedisKeyConfig) *RedisKeyManager {
	config.KeyPrefix = strings.TrimSuffix(config.KeyPrefix, ":")
	return &RedisKeyManager{
		config: config,
	}
}

// GetKey returns the Redis key for a preference key, hashed and prefixed
// according to the configuration.
func (m *RedisKeyManager) GetKey(name string) string {
	key := name
	if m.config.HashKeys {
		key = m.hashKey(name)
	}
	if m.config.KeyPrefix != "" {
		key = fmt.Sprintf("%s:%s", m.config.KeyPrefix, key)
	}
	return key
}

func (m *RedisKeyManager) hashKey(name string) string {
	hash := sha256.Sum256([]byte(name))
	return hex.EncodeToString(hash[:])
}

func (m *RedisKeyManager) GetKeyPattern() string {
	if m.config.KeyPrefix != "" {
		return fmt.Sprintf("%s:*", m.config.KeyPrefix)
	}
	return "*"
}

// DebugKeyTransformation describes how a key is rewritten, for debug logs.
func (m *RedisKeyManager) DebugKeyTransformation(name string) string {
	return fmt.Sprintf("original=%s hashed=%t prefix=%q redis_key=%s",
		name, m.config.HashKeys, m.config.KeyPrefix, m.GetKey(name))
}
