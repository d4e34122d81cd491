package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Load loads configuration with precedence: defaults → .env file → environment variables → command line flags
// It performs validation and runtime transformations before returning the configuration.
func Load() (*Config, error) {
	// Parse command line flags if not already parsed
	if !flag.Parsed() {
		flag.Parse()
	}

	// Step 1: Start with defaults
	cfg := defaultConfig()

	// Step 2: Merge the .env file into the process environment (never overrides)
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	// Step 3: Apply environment variables
	loadTelegramFromEnv(&cfg.Telegram)
	loadBotFromEnv(&cfg.Bot)
	loadScrapeFromEnv(&cfg.Scrape)
	loadServerFromEnv(&cfg.Server)
	loadRedisFromEnv(&cfg.Redis)
	loadMQTTFromEnv(&cfg.MQTT)
	loadPipelineFromEnv(&cfg.Pipeline)
	loadLogFromEnv(&cfg.Log)

	// Step 4: Apply command line flags (highest precedence)
	applyTelegramFlags(&cfg.Telegram)
	applyBotFlags(&cfg.Bot)
	applyScrapeFlags(&cfg.Scrape)
	applyServerFlags(&cfg.Server)
	applyRedisFlags(&cfg.Redis)
	applyMQTTFlags(&cfg.MQTT)
	applyPipelineFlags(&cfg.Pipeline)
	applyLogFlags(&cfg.Log)

	// Step 5: Apply runtime validations and transformations
	if err := applyRuntimeValidation(cfg); err != nil {
		return nil, err
	}

	// Step 6: Validate the final configuration
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadDotEnv reads ENV_FILE (default ".env"); a missing file is not an error
func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
