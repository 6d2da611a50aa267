package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

// EngineConfig points at the external matching engine.
type EngineConfig struct {
	URL           string
	APIKey        string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
}

var (
	engineConfig *EngineConfig
	engineOnce   sync.Once
)

func LoadEngineConfig() *EngineConfig {
	engineOnce.Do(func() {
		engineConfig = newEngineConfig(env())
	})
	return engineConfig
}

func newEngineConfig(v *viper.Viper) *EngineConfig {
	cfg := &EngineConfig{
		URL:           v.GetString("ENGINE_URL"),
		APIKey:        v.GetString("ENGINE_API_KEY"),
		Timeout:       v.GetDuration("ENGINE_TIMEOUT"),
		RatePerSecond: v.GetFloat64("ENGINE_RATE_PER_SECOND"),
		Burst:         v.GetInt("ENGINE_BURST"),
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	return cfg
}
