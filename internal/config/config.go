package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	MongoDB      MongoDBConfig
	JWT          JWTConfig
	Partner      PartnerConfig
	Presentation PresentationConfig
	Engine       EngineConfig
	LogLevel     string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port         string
	AllowedHosts []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// PartnerConfig holds partner API-specific configuration
type PartnerConfig struct {
	BaseURL string
	APIKey  string
	MockAPI bool
}

// PresentationConfig holds the render/announce webhook configuration
type PresentationConfig struct {
	RenderURL   string
	AnnounceURL string
	Mock        bool
}

// EngineConfig holds giveaway engine tuning
type EngineConfig struct {
	RefreshIntervalSeconds int
	DraftTTLSeconds        int
}

// RefreshInterval returns the public-surface refresh cadence.
func (e EngineConfig) RefreshInterval() time.Duration {
	return time.Duration(e.RefreshIntervalSeconds) * time.Second
}

// DraftTTL returns how long an unconfirmed start draft is kept.
func (e EngineConfig) DraftTTL() time.Duration {
	return time.Duration(e.DraftTTLSeconds) * time.Second
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// Config file is optional, environment variables cover everything.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedHosts", []string{"localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "giveaway-backend")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("LogLevel", "info")
	viper.SetDefault("Partner.MockAPI", true)
	viper.SetDefault("Presentation.Mock", true)
	viper.SetDefault("Engine.RefreshIntervalSeconds", 2)
	viper.SetDefault("Engine.DraftTTLSeconds", 60)
}
