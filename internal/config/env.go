package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	vp     *viper.Viper
	vpOnce sync.Once
)

// env returns the process-wide viper instance. The .env file is loaded by the
// command layer before any LoadXConfig call.
func env() *viper.Viper {
	vpOnce.Do(func() {
		vp = viper.New()
		vp.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
		vp.AutomaticEnv()
		setDefaults(vp)
	})
	return vp
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "talent-shortlist")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", ":8080")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("ENGINE_TIMEOUT", "30s")
	v.SetDefault("ENGINE_RATE_PER_SECOND", 5.0)
	v.SetDefault("ENGINE_BURST", 10)

	v.SetDefault("GEMINI_EMBEDDING_MODEL", "gemini-embedding-001")

	v.SetDefault("OUTBOX_KEY", "shortlist:outbox")
	v.SetDefault("OUTBOX_CHANNEL", "shortlist.events")

	v.SetDefault("SESSION_IDLE_TTL", "2h")
	v.SetDefault("SESSION_SWEEP_SPEC", "@every 5m")
}

// BindFlag lets a command-line flag override the named setting.
func BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("flag for %s is not defined", key)
	}
	return env().BindPFlag(key, flag)
}
