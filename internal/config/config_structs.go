// Package config provides configuration loading and validation from a .env file, environment variables and command line flags.
package config

import "time"

// Config holds the complete configuration
type Config struct {
	Telegram TelegramConfig
	Bot      BotConfig
	Scrape   ScrapeConfig
	Server   ServerConfig
	Redis    RedisConfig
	MQTT     MQTTConfig
	Pipeline PipelineConfig
	Log      LogConfig
}

// TelegramConfig holds the Bot API client configuration
type TelegramConfig struct {
	Token          string
	BaseURL        string
	PageSize       int           // Upper bound on updates requested per cycle
	PollTimeout    time.Duration // Long-poll wait sent to the provider, 0 for short polling
	RequestTimeout time.Duration // Client-side deadline of a single API call
}

// BotConfig holds the conversational settings
type BotConfig struct {
	Secret string // Termination phrase; receiving it as plain text stops the loop
}

// ScrapeConfig describes where the title holder tables live
type ScrapeConfig struct {
	PageURL        string
	TableClass     string
	UserAgent      string
	Timeout        time.Duration
	TitleColumn    int
	ChampionColumn int
}

// ServerConfig holds the HTTP control endpoint settings
type ServerConfig struct {
	Address         string
	ShutdownTimeout time.Duration
}

// RedisConfig holds the optional page cache configuration
type RedisConfig struct {
	Address      string // Empty disables the cache
	KeyPrefix    string
	TTL          time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PingTimeout  time.Duration
}

// Enabled reports whether a Redis address was configured
func (c RedisConfig) Enabled() bool {
	return c.Address != ""
}

// MQTTConfig holds the optional reply mirror configuration
type MQTTConfig struct {
	Broker               string // Empty disables the mirror
	ClientID             string
	Topic                string
	QoS                  byte
	ConnectTimeout       time.Duration
	WriteTimeout         time.Duration
	MaxReconnectInterval time.Duration
	DisconnectTimeout    uint // Milliseconds for graceful disconnect
	// TLS Configuration
	TLSEnabled      bool
	CACert          string
	ClientCert      string
	ClientKey       string
	InsecureSkip    bool
	UseCertCNPrefix bool // If true, prefix the topic with cert CN for ACL constraints
}

// Enabled reports whether an MQTT broker was configured
func (c MQTTConfig) Enabled() bool {
	return c.Broker != ""
}

// PipelineConfig holds update loop tuning
type PipelineConfig struct {
	ErrorBackoff           time.Duration // Pause after a failed cycle
	MaxConsecutiveFailures int           // Failed cycles tolerated before the loop stops itself
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string
}
