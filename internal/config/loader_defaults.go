package config

import "time"

// DefaultPageURL is the public page listing the current title holders
const DefaultPageURL = "https://en.wikipedia.org/wiki/List_of_current_champions_in_WWE"

func defaultTelegramConfig() TelegramConfig {
	return TelegramConfig{
		Token:          "",
		BaseURL:        "https://api.telegram.org",
		PageSize:       100,
		PollTimeout:    25 * time.Second,
		RequestTimeout: 35 * time.Second,
	}
}

func defaultScrapeConfig() ScrapeConfig {
	return ScrapeConfig{
		PageURL:        DefaultPageURL,
		TableClass:     "wikitable",
		UserAgent:      "champions-bot/1.0",
		Timeout:        15 * time.Second,
		TitleColumn:    0,
		ChampionColumn: 2,
	}
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Address:         ":3000",
		ShutdownTimeout: 30 * time.Second,
	}
}

// defaultRedisConfig leaves the cache disabled until an address is given
func defaultRedisConfig() RedisConfig {
	return RedisConfig{
		Address:      "",
		KeyPrefix:    "champions-bot:page:",
		TTL:          10 * time.Minute,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PingTimeout:  5 * time.Second,
	}
}

// defaultMQTTConfig leaves the mirror disabled until a broker is given
func defaultMQTTConfig() MQTTConfig {
	return MQTTConfig{
		Broker:               "",
		ClientID:             "champions-bot",
		Topic:                "champions-bot/replies",
		QoS:                  0,
		ConnectTimeout:       10 * time.Second,
		WriteTimeout:         5 * time.Second,
		MaxReconnectInterval: 10 * time.Second,
		DisconnectTimeout:    1000,
	}
}

func defaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		ErrorBackoff:           2 * time.Second,
		MaxConsecutiveFailures: 5,
	}
}

// defaultConfig returns a complete configuration with all default values
func defaultConfig() *Config {
	return &Config{
		Telegram: defaultTelegramConfig(),
		Scrape:   defaultScrapeConfig(),
		Server:   defaultServerConfig(),
		Redis:    defaultRedisConfig(),
		MQTT:     defaultMQTTConfig(),
		Pipeline: defaultPipelineConfig(),
		Log:      LogConfig{Level: "info"},
	}
}
