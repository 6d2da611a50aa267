package config

import (
	"sync"

	"github.com/spf13/viper"
)

type AppConfig struct {
	Name    string
	Env     string
	Port    string
	BaseURL string
	LogJSON bool
	Debug   bool
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = newAppConfig(env())
	})
	return appConfig
}

func newAppConfig(v *viper.Viper) *AppConfig {
	return &AppConfig{
		Name:    v.GetString("APP_NAME"),
		Env:     v.GetString("APP_ENV"),
		Port:    v.GetString("APP_PORT"),
		BaseURL: v.GetString("APP_URL"),
		LogJSON: v.GetBool("LOG_JSON"),
		Debug:   v.GetBool("LOG_DEBUG"),
	}
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}
