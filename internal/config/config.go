package config

import (
	"os"

	"github.com/spf13/cast"

	"failboard/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server ServerConfig
	API    APIConfig
	Data   DataConfig
}

// ServerConfig holds dashboard web server settings
type ServerConfig struct {
	Port string
}

// APIConfig holds JSON API server settings
type APIConfig struct {
	Port    string
	GinMode string
	// AllowedOrigins feeds the CORS middleware on the export surface.
	AllowedOrigins []string
}

// DataConfig holds dataset loading settings
type DataConfig struct {
	// File is the survey CSV or XLSX to load. A missing file is not an
	// error: the loader substitutes the built-in sample set.
	File string
	// SampleSeed drives the fallback generator; fixed so repeated runs
	// render the same demo dashboard.
	SampleSeed int64
	// SampleRows is how many synthetic rows the fallback produces.
	SampleRows int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		API: APIConfig{
			Port:           getEnvOrDefault("API_PORT", "8081"),
			GinMode:        getEnvOrDefault("GIN_MODE", "release"),
			AllowedOrigins: []string{getEnvOrDefault("CORS_ORIGIN", "*")},
		},
		Data: DataConfig{
			File:       getEnvOrDefault("DATA_FILE", "voice-assistant-failures.csv"),
			SampleSeed: int64(getEnvIntOrDefault("SAMPLE_SEED", 42)),
			SampleRows: getEnvIntOrDefault("SAMPLE_ROWS", 120),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT cannot be empty")
	}
	if config.API.Port == "" {
		return errors.ConfigInvalid("API_PORT cannot be empty")
	}
	if config.Data.SampleRows <= 0 {
		return errors.ConfigInvalid("SAMPLE_ROWS must be positive")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := cast.ToIntE(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
