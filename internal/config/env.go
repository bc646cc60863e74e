package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// LoadFromEnv builds the configuration from the environment. When envFile is
// set it must exist; otherwise a .env in the working directory is loaded if
// present. Variables already set in the environment take precedence over the
// file.
func LoadFromEnv(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file from %s: %w", envFile, err)
		}
	} else {
		_ = godotenv.Load() // Ignore errors if file doesn't exist
	}

	cfg := New()
	if exts := parseExtensions(getEnvString("SCRIPTLENS_EXTENSIONS", "")); len(exts) > 0 {
		cfg.Extensions = exts
	}
	cfg.Debounce = getEnvDuration("SCRIPTLENS_DEBOUNCE", cfg.Debounce)
	cfg.SemicolonCheck = getEnvBool("SCRIPTLENS_SEMICOLON_CHECK", cfg.SemicolonCheck)
	cfg.KnownObjects = getEnvString("SCRIPTLENS_KNOWN_OBJECTS", "")
	cfg.LogVerbosity = getEnvInt("SCRIPTLENS_LOG_VERBOSITY", cfg.LogVerbosity)
	cfg.LogFile = getEnvString("SCRIPTLENS_LOG_FILE", "")
	cfg.PollInterval = getEnvDuration("SCRIPTLENS_POLL_INTERVAL", cfg.PollInterval)
	return cfg, nil
}

func getEnvString(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := cast.ToIntE(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := cast.ToBoolE(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := cast.ToDurationE(value)
	if err != nil || d <= 0 {
		return defaultValue
	}
	return d
}
