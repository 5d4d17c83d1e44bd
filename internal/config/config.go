package config

import "github.com/joho/godotenv"

type Config interface {
	EnvConfig
	OAuthConfig
	EmbedConfig
	ProvisioningConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetBaseURL() string
	GetRedisURL() string
	GetDatabaseURL() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Embed
	Provisioning
}

func New() Config {
	_ = godotenv.Load()
	return mainConfig{}
}
