package config

import (
	"os"
	"strconv"
	"time"
)

// loadTelegramFromEnv loads Bot API settings; WWE_BOT_TOKEN is accepted as a legacy alias
func loadTelegramFromEnv(cfg *TelegramConfig) {
	if v := getEnvString("TELEGRAM_TOKEN", "WWE_BOT_TOKEN"); v != "" {
		cfg.Token = v
	}
	if v := getEnvString("TELEGRAM_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := getEnvInt("TELEGRAM_PAGE_SIZE"); v != 0 {
		cfg.PageSize = v
	}
	// Presence decides: 0s selects short polling
	if v, ok := lookupEnvDuration("TELEGRAM_POLL_TIMEOUT"); ok {
		cfg.PollTimeout = v
	}
	if v := getEnvDuration("TELEGRAM_REQUEST_TIMEOUT"); v != 0 {
		cfg.RequestTimeout = v
	}
}

// loadBotFromEnv loads the termination secret; SECRET is accepted as a legacy alias
func loadBotFromEnv(cfg *BotConfig) {
	if v := getEnvString("BOT_SECRET", "SECRET"); v != "" {
		cfg.Secret = v
	}
}

func loadScrapeFromEnv(cfg *ScrapeConfig) {
	if v := getEnvString("SCRAPE_PAGE_URL"); v != "" {
		cfg.PageURL = v
	}
	if v := getEnvString("SCRAPE_TABLE_CLASS"); v != "" {
		cfg.TableClass = v
	}
	if v := getEnvString("SCRAPE_USER_AGENT"); v != "" {
		cfg.UserAgent = v
	}
	if v := getEnvDuration("SCRAPE_TIMEOUT"); v != 0 {
		cfg.Timeout = v
	}
	// Column zero is meaningful, so presence rather than value decides
	if v, ok := lookupEnvInt("SCRAPE_TITLE_COLUMN"); ok {
		cfg.TitleColumn = v
	}
	if v, ok := lookupEnvInt("SCRAPE_CHAMPION_COLUMN"); ok {
		cfg.ChampionColumn = v
	}
}

func loadServerFromEnv(cfg *ServerConfig) {
	if v := getEnvString("SERVER_ADDRESS"); v != "" {
		cfg.Address = v
	} else if v := getEnvString("PORT"); v != "" {
		cfg.Address = ":" + v
	}
	if v := getEnvDuration("SERVER_SHUTDOWN_TIMEOUT"); v != 0 {
		cfg.ShutdownTimeout = v
	}
}

// loadRedisFromEnv loads Redis configuration from environment variables
func loadRedisFromEnv(cfg *RedisConfig) {
	if v := getEnvString("REDIS_ADDRESS"); v != "" {
		cfg.Address = v
	}
	if v := getEnvString("REDIS_KEY_PREFIX"); v != "" {
		cfg.KeyPrefix = v
	}
	if v := getEnvDuration("REDIS_TTL"); v != 0 {
		cfg.TTL = v
	}
	if v := getEnvDuration("REDIS_DIAL_TIMEOUT"); v != 0 {
		cfg.DialTimeout = v
	}
	if v := getEnvDuration("REDIS_READ_TIMEOUT"); v != 0 {
		cfg.ReadTimeout = v
	}
	if v := getEnvDuration("REDIS_WRITE_TIMEOUT"); v != 0 {
		cfg.WriteTimeout = v
	}
	if v := getEnvDuration("REDIS_PING_TIMEOUT"); v != 0 {
		cfg.PingTimeout = v
	}
}

// loadMQTTFromEnv loads MQTT configuration from environment variables
func loadMQTTFromEnv(cfg *MQTTConfig) {
	loadMQTTStrings(cfg)
	loadMQTTTimeouts(cfg)
	loadMQTTTLS(cfg)
}

func loadMQTTStrings(cfg *MQTTConfig) {
	if v := getEnvString("MQTT_BROKER"); v != "" {
		cfg.Broker = v
	}
	if v := getEnvString("MQTT_CLIENT_ID"); v != "" {
		cfg.ClientID = v
	}
	if v := getEnvString("MQTT_TOPIC"); v != "" {
		cfg.Topic = v
	}
	if v := getEnvInt("MQTT_QOS"); v > 0 && v <= 2 {
		cfg.QoS = byte(v) // #nosec G115 - validated range 0-2
	}
	if v := getEnvInt("MQTT_DISCONNECT_TIMEOUT"); v > 0 {
		cfg.DisconnectTimeout = uint(v) // #nosec G115 - validated positive
	}
}

func loadMQTTTimeouts(cfg *MQTTConfig) {
	if v := getEnvDuration("MQTT_CONNECT_TIMEOUT"); v != 0 {
		cfg.ConnectTimeout = v
	}
	if v := getEnvDuration("MQTT_WRITE_TIMEOUT"); v != 0 {
		cfg.WriteTimeout = v
	}
	if v := getEnvDuration("MQTT_MAX_RECONNECT_INTERVAL"); v != 0 {
		cfg.MaxReconnectInterval = v
	}
}

func loadMQTTTLS(cfg *MQTTConfig) {
	if v := getEnvBool("MQTT_TLS_ENABLED"); v {
		cfg.TLSEnabled = v
	}
	if v := getEnvString("MQTT_CA_CERT"); v != "" {
		cfg.CACert = v
	}
	if v := getEnvString("MQTT_CLIENT_CERT"); v != "" {
		cfg.ClientCert = v
	}
	if v := getEnvString("MQTT_CLIENT_KEY"); v != "" {
		cfg.ClientKey = v
	}
	if v := getEnvBool("MQTT_TLS_INSECURE_SKIP"); v {
		cfg.InsecureSkip = v
	}
	if v := getEnvBool("MQTT_USE_CERT_CN_PREFIX"); v {
		cfg.UseCertCNPrefix = v
	}
}

// loadPipelineFromEnv loads update loop tuning from environment variables
func loadPipelineFromEnv(cfg *PipelineConfig) {
	if v := getEnvDuration("PIPELINE_ERROR_BACKOFF"); v != 0 {
		cfg.ErrorBackoff = v
	}
	if v := getEnvInt("PIPELINE_MAX_CONSECUTIVE_FAILURES"); v != 0 {
		cfg.MaxConsecutiveFailures = v
	}
}

func loadLogFromEnv(cfg *LogConfig) {
	if v := getEnvString("LOG_LEVEL"); v != "" {
		cfg.Level = v
	}
}

// Helper functions for reading environment variables

// getEnvString returns the first non-empty value among keys
func getEnvString(keys ...string) string {
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

func getEnvInt(key string) int {
	v, _ := lookupEnvInt(key)
	return v
}

func lookupEnvInt(key string) (int, bool) {
	value := os.Getenv(key)
	if value == "" {
		return 0, false
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return intValue, true
}

func getEnvDuration(key string) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return 0
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return duration
}

func lookupEnvDuration(key string) (time.Duration, bool) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return 0, false
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return 0, false
	}
	return duration, true
}

func getEnvBool(key string) bool {
	value := os.Getenv(key)
	return value == "true"
}
