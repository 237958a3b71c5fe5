// pkg/utils/redis_test.go

package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKeyManager_GetKey(t *testing.T) {
	tests := []struct {
		name   string
		config RedisKeyConfig
		input  string
		want   string
	}{
		{
			name:   "plain key",
			config: RedisKeyConfig{},
			input:  "theme",
			want:   "theme",
		},
		{
			name:   "prefixed key",
			config: RedisKeyConfig{KeyPrefix: "cab:prefs"},
			input:  "user_role",
			want:   "cab:prefs:user_role",
		},
		{
			name:   "trailing colon in prefix",
			config: RedisKeyConfig{KeyPrefix: "cab:prefs:"},
			input:  "theme",
			want:   "cab:prefs:theme",
		},
		{
			name:   "hashed key",
			config: RedisKeyConfig{HashKeys: true},
			input:  "theme",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr := NewRedisKeyManager(tt.config)
			got := mgr.GetKey(tt.input)
			if tt.config.HashKeys {
				assert.Len(t, got, 64)
				assert.NotEqual(t, tt.input, got)
				assert.Equal(t, got, mgr.GetKey(tt.input), "hashing must be deterministic")
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRedisKeyManager_HashedAndPrefixed(t *testing.T) {
	mgr := NewRedisKeyManager(RedisKeyConfig{HashKeys: true, KeyPrefix: "cab"})

	key := mgr.GetKey("theme")
	assert.Contains(t, key, "cab:")
	assert.NotContains(t, key, "theme")
	assert.NotEqual(t, key, mgr.GetKey("user_role"))
}

func TestRedisKeyManager_GetKeyPattern(t *testing.T) {
	assert.Equal(t, "*", NewRedisKeyManager(RedisKeyConfig{}).GetKeyPattern())
	assert.Equal(t, "cab:prefs:*", NewRedisKeyManager(RedisKeyConfig{KeyPrefix: "cab:prefs"}).GetKeyPattern())
}

func TestRedisKeyManager_DebugKeyTransformation(t *testing.T) {
	mgr := NewRedisKeyManager(RedisKeyConfig{KeyPrefix: "cab"})
	assert.Contains(t, mgr.DebugKeyTransformation("theme"), "redis_key=cab:theme")
}
