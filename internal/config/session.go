package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

type SessionConfig struct {
	IdleTTL   time.Duration
	SweepSpec string
}

var (
	sessionConfig *SessionConfig
	sessionOnce   sync.Once
)

func LoadSessionConfig() *SessionConfig {
	sessionOnce.Do(func() {
		sessionConfig = newSessionConfig(env())
	})
	return sessionConfig
}

func newSessionConfig(v *viper.Viper) *SessionConfig {
	cfg := &SessionConfig{
		IdleTTL:   v.GetDuration("SESSION_IDLE_TTL"),
		SweepSpec: v.GetString("SESSION_SWEEP_SPEC"),
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 2 * time.Hour
	}
	return cfg
}
