package config

import "fmt"

// maxPageSize is the largest limit getUpdates accepts
const maxPageSize = 100

// Validate checks configuration constraints. The token and the secret are not
// checked here: the enable trigger reports them as missing instead.
func Validate(cfg *Config) error {
	if err := validateTelegram(&cfg.Telegram); err != nil {
		return err
	}
	if err := validateScrape(&cfg.Scrape); err != nil {
		return err
	}
	if cfg.Server.Address == "" {
		return fmt.Errorf("server address cannot be empty")
	}
	if err := validateRedis(&cfg.Redis); err != nil {
		return err
	}
	if err := validateMQTT(&cfg.MQTT); err != nil {
		return err
	}
	return validatePipeline(&cfg.Pipeline)
}

func validateTelegram(cfg *TelegramConfig) error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("telegram base URL cannot be empty")
	}
	if cfg.PageSize < 1 || cfg.PageSize > maxPageSize {
		return fmt.Errorf("telegram page size must be between 1 and %d", maxPageSize)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("telegram request timeout must be positive")
	}
	if cfg.PollTimeout < 0 || cfg.PollTimeout >= cfg.RequestTimeout {
		return fmt.Errorf("telegram poll timeout must be non-negative and shorter than the request timeout")
	}
	return nil
}

func validateScrape(cfg *ScrapeConfig) error {
	if cfg.PageURL == "" {
		return fmt.Errorf("scrape page URL cannot be empty")
	}
	if cfg.TableClass == "" {
		return fmt.Errorf("scrape table class cannot be empty")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("scrape timeout must be positive")
	}
	if cfg.TitleColumn < 0 || cfg.ChampionColumn < 0 {
		return fmt.Errorf("scrape columns must be non-negative")
	}
	if cfg.TitleColumn == cfg.ChampionColumn {
		return fmt.Errorf("scrape title and champion columns must differ")
	}
	return nil
}

// validateRedis only applies when the cache is enabled
func validateRedis(cfg *RedisConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.TTL <= 0 {
		return fmt.Errorf("redis TTL must be positive")
	}
	return nil
}

// validateMQTT only applies when the mirror is enabled
func validateMQTT(cfg *MQTTConfig) error {
	if !cfg.Enabled() {
		return nil
	}
	if cfg.ClientID == "" {
		return fmt.Errorf("mqtt client ID cannot be empty")
	}
	if cfg.Topic == "" {
		return fmt.Errorf("mqtt topic cannot be empty")
	}
	if cfg.QoS > 2 {
		return fmt.Errorf("mqtt QoS must be 0, 1 or 2")
	}
	return nil
}

func validatePipeline(cfg *PipelineConfig) error {
	if cfg.ErrorBackoff < 0 {
		return fmt.Errorf("pipeline error backoff cannot be negative")
	}
	if cfg.MaxConsecutiveFailures < 1 {
		return fmt.Errorf("pipeline max consecutive failures must be positive")
	}
	return nil
}
