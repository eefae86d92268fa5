package config

import (
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	Auth     AuthConfig
	Admin    AdminConfig
	Gemini   GeminiConfig
	Scoring  ScoringConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// AuthConfig holds identity-provider configuration. Tokens are verified
// against the JWKS document published by the issuer.
type AuthConfig struct {
	Domain       string
	Audience     string
	DisableAuth  bool
	JWKSCacheTTL int // seconds
}

// Issuer derives the expected token issuer from the configured domain.
func (a AuthConfig) Issuer() string {
	if a.Domain == "" {
		return ""
	}
	return "https://" + a.Domain + "/"
}

// JWKSURL derives the JWKS document URL from the configured domain.
func (a AuthConfig) JWKSURL() string {
	if a.Domain == "" {
		return ""
	}
	return a.Issuer() + ".well-known/jwks.json"
}

// AdminConfig holds local admin login configuration for catalog management.
// PasswordHash is a bcrypt hash; Secret signs the issued HS256 tokens.
type AdminConfig struct {
	Email        string
	PasswordHash string
	Secret       string
	ExpiresIn    int // seconds
}

// GeminiConfig holds the LLM text-service configuration
type GeminiConfig struct {
	APIKey string
	Model  string
	Mock   bool
}

// ScoringConfig surfaces the engine's tunable constants
type ScoringConfig struct {
	FallbackMonthlySpend float64
	DefaultWindowDays    int
	DefaultLimit         int
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
		// It's okay if config file is not found, we'll use environment variables
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
	viper.SetDefault("Server.Port", "5000")
	viper.SetDefault("Server.AllowedOrigins", []string{"http://localhost:5173"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "swipecoach")
	viper.SetDefault("Auth.DisableAuth", false)
	viper.SetDefault("Auth.JWKSCacheTTL", 3600)
	viper.SetDefault("Admin.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Gemini.Model", "gemini-2.5-flash")
	viper.SetDefault("Gemini.Mock", true)
	viper.SetDefault("Scoring.FallbackMonthlySpend", 1000.0)
	viper.SetDefault("Scoring.DefaultWindowDays", 90)
	viper.SetDefault("Scoring.DefaultLimit", 5)
	viper.SetDefault("LogLevel", "info")
}
