package config

import (
	"sync"

	"github.com/spf13/viper"
)

// RedisConfig configures the share outbox. An empty URL disables sharing.
type RedisConfig struct {
	URL     string
	Key     string
	Channel string
}

var (
	redisConfig *RedisConfig
	redisOnce   sync.Once
)

func LoadRedisConfig() *RedisConfig {
	redisOnce.Do(func() {
		redisConfig = newRedisConfig(env())
	})
	return redisConfig
}

func newRedisConfig(v *viper.Viper) *RedisConfig {
	return &RedisConfig{
		URL:     v.GetString("REDIS_URL"),
		Key:     v.GetString("OUTBOX_KEY"),
		Channel: v.GetString("OUTBOX_CHANNEL"),
	}
}

func (c *RedisConfig) Enabled() bool {
	return c.URL != ""
}
