package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment string `validate:"required,oneof=development staging production"`
	Port        string `validate:"required"`
	LogLevel    string `validate:"required,oneof=trace debug info warn error"`
	Storage     StorageConfig
	RateLimit   RateLimitConfig
}

// StorageConfig holds table service backend configuration
type StorageConfig struct {
	Type         string `validate:"required,oneof=dynamodb sqlite memory"`
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	SQLitePath   string
	KeyAttribute string `validate:"required"`
	AutoMigrate  bool
}

// RateLimitConfig holds dev-server rate limiting configuration
type RateLimitConfig struct {
	RequestsPerSecond float64 `validate:"gt=0"`
	Burst             int     `validate:"gt=0"`
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("PORT", "8081")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORAGE_TYPE", "dynamodb")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("SQLITE_PATH", "./data/tables.db")
	viper.SetDefault("TABLE_KEY_ATTRIBUTE", "id")
	viper.SetDefault("AUTO_MIGRATE", true)
	viper.SetDefault("RATE_LIMIT_RPS", 50.0)
	viper.SetDefault("RATE_LIMIT_BURST", 100)

	config := &Config{
		Environment: viper.GetString("ENVIRONMENT"),
		Port:        viper.GetString("PORT"),
		LogLevel:    viper.GetString("LOG_LEVEL"),
		Storage: StorageConfig{
			Type:         viper.GetString("STORAGE_TYPE"),
			Region:       viper.GetString("AWS_REGION"),
			Endpoint:     viper.GetString("DYNAMODB_ENDPOINT"),
			AccessKey:    viper.GetString("AWS_ACCESS_KEY_ID"),
			SecretKey:    viper.GetString("AWS_SECRET_ACCESS_KEY"),
			SQLitePath:   viper.GetString("SQLITE_PATH"),
			KeyAttribute: viper.GetString("TABLE_KEY_ATTRIBUTE"),
			AutoMigrate:  viper.GetBool("AUTO_MIGRATE"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             viper.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// GetOptimizedConfig loads configuration for Lambda cold starts: no
// .env lookup, environment variables only.
func GetOptimizedConfig() (*Config, error) {
	config := &Config{
		Environment: GetEnv("ENVIRONMENT", "production"),
		Port:        GetEnv("PORT", "8081"),
		LogLevel:    GetEnv("LOG_LEVEL", "info"),
		Storage: StorageConfig{
			Type:         GetEnv("STORAGE_TYPE", "dynamodb"),
			Region:       GetEnv("AWS_REGION", "us-east-1"),
			Endpoint:     os.Getenv("DYNAMODB_ENDPOINT"),
			KeyAttribute: GetEnv("TABLE_KEY_ATTRIBUTE", "id"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 50,
			Burst:             100,
		},
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetEnvAsInt gets an environment variable as integer with a fallback value
func GetEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}
