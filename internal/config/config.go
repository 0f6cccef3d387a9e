package config

import (
	"os"
	"time"
)

type AppConfig struct {
	Port            string
	AdminToken      string
	ProviderTimeout time.Duration
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		Port:            getEnv("PORT", "5050"),
		AdminToken:      getEnv("ADMIN_TOKEN", ""),
		ProviderTimeout: 30 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
