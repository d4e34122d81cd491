package config

import (
	"flag"
)

// Command line flags (have precedence over environment variables)
var (
	// Telegram flags
	flagTelegramToken          = flag.String("telegram-token", "", "Telegram bot token")
	flagTelegramBaseURL        = flag.String("telegram-base-url", "", "Telegram Bot API base URL")
	flagTelegramPageSize       = flag.Int("telegram-page-size", 0, "Maximum updates requested per poll cycle (1-100)")
	flagTelegramPollTimeout    = flag.Duration("telegram-poll-timeout", -1, "Long-poll wait passed to getUpdates (0 for short polling)")
	flagTelegramRequestTimeout = flag.Duration("telegram-request-timeout", 0, "Deadline of a single Bot API call")

	// Bot flags
	flagBotSecret = flag.String("bot-secret", "", "Termination phrase that stops the update loop")

	// Scrape flags
	flagScrapePageURL        = flag.String("scrape-page-url", "", "Page listing the current title holders")
	flagScrapeTableClass     = flag.String("scrape-table-class", "", "CSS class of the roster tables")
	flagScrapeUserAgent      = flag.String("scrape-user-agent", "", "User-Agent sent with page requests")
	flagScrapeTimeout        = flag.Duration("scrape-timeout", 0, "Page fetch timeout")
	flagScrapeTitleColumn    = flag.Int("scrape-title-column", -1, "Zero-based column holding the title")
	flagScrapeChampionColumn = flag.Int("scrape-champion-column", -1, "Zero-based column holding the champion")

	// Server flags
	flagServerAddress         = flag.String("server-address", "", "HTTP control endpoint listen address")
	flagServerShutdownTimeout = flag.Duration("server-shutdown-timeout", 0, "Graceful shutdown timeout")

	// Redis flags
	flagRedisAddress   = flag.String("redis-address", "", "Redis address for the page cache (empty disables)")
	flagRedisKeyPrefix = flag.String("redis-key-prefix", "", "Redis key prefix for cached pages")
	flagRedisTTL       = flag.Duration("redis-ttl", 0, "Cached page lifetime")

	// MQTT flags
	flagMQTTBroker       = flag.String("mqtt-broker", "", "MQTT broker URL for the reply mirror (empty disables)")
	flagMQTTClientID     = flag.String("mqtt-client-id", "", "MQTT client ID")
	flagMQTTTopic        = flag.String("mqtt-topic", "", "MQTT topic receiving reply events")
	flagMQTTQoS          = flag.Int("mqtt-qos", -1, "MQTT QoS (0, 1, or 2)")
	flagMQTTTLSEnabled   = flag.Bool("mqtt-tls-enabled", false, "Enable MQTT TLS")
	flagMQTTCACert       = flag.String("mqtt-ca-cert", "", "MQTT CA certificate path")
	flagMQTTClientCert   = flag.String("mqtt-client-cert", "", "MQTT client certificate path")
	flagMQTTClientKey    = flag.String("mqtt-client-key", "", "MQTT client key path")
	flagMQTTInsecureSkip = flag.Bool("mqtt-tls-insecure-skip", false, "Skip MQTT TLS verification")
	flagMQTTCertCNPrefix = flag.Bool("mqtt-use-cert-cn-prefix", false, "Prefix the topic with client cert CN")

	// Pipeline flags
	flagPipelineErrorBackoff = flag.Duration("pipeline-error-backoff", 0, "Pause after a failed poll cycle")
	flagPipelineMaxFailures  = flag.Int("pipeline-max-consecutive-failures", 0, "Failed cycles tolerated before stopping")

	// Log flags
	flagLogLevel = flag.String("log-level", "", "Log level (trace, debug, info, warn, error)")
)

func applyTelegramFlags(cfg *TelegramConfig) {
	if *flagTelegramToken != "" {
		cfg.Token = *flagTelegramToken
	}
	if *flagTelegramBaseURL != "" {
		cfg.BaseURL = *flagTelegramBaseURL
	}
	if *flagTelegramPageSize != 0 {
		cfg.PageSize = *flagTelegramPageSize
	}
	if *flagTelegramPollTimeout >= 0 {
		cfg.PollTimeout = *flagTelegramPollTimeout
	}
	if *flagTelegramRequestTimeout != 0 {
		cfg.RequestTimeout = *flagTelegramRequestTimeout
	}
}

func applyBotFlags(cfg *BotConfig) {
	if *flagBotSecret != "" {
		cfg.Secret = *flagBotSecret
	}
}

func applyScrapeFlags(cfg *ScrapeConfig) {
	if *flagScrapePageURL != "" {
		cfg.PageURL = *flagScrapePageURL
	}
	if *flagScrapeTableClass != "" {
		cfg.TableClass = *flagScrapeTableClass
	}
	if *flagScrapeUserAgent != "" {
		cfg.UserAgent = *flagScrapeUserAgent
	}
	if *flagScrapeTimeout != 0 {
		cfg.Timeout = *flagScrapeTimeout
	}
	if *flagScrapeTitleColumn >= 0 {
		cfg.TitleColumn = *flagScrapeTitleColumn
	}
	if *flagScrapeChampionColumn >= 0 {
		cfg.ChampionColumn = *flagScrapeChampionColumn
	}
}

func applyServerFlags(cfg *ServerConfig) {
	if *flagServerAddress != "" {
		cfg.Address = *flagServerAddress
	}
	if *flagServerShutdownTimeout != 0 {
		cfg.ShutdownTimeout = *flagServerShutdownTimeout
	}
}

// applyRedisFlags applies command line flags to Redis configuration
func applyRedisFlags(cfg *RedisConfig) {
	if *flagRedisAddress != "" {
		cfg.Address = *flagRedisAddress
	}
	if *flagRedisKeyPrefix != "" {
		cfg.KeyPrefix = *flagRedisKeyPrefix
	}
	if *flagRedisTTL != 0 {
		cfg.TTL = *flagRedisTTL
	}
}

// applyMQTTFlags applies command line flags to MQTT configuration
func applyMQTTFlags(cfg *MQTTConfig) {
	if *flagMQTTBroker != "" {
		cfg.Broker = *flagMQTTBroker
	}
	if *flagMQTTClientID != "" {
		cfg.ClientID = *flagMQTTClientID
	}
	if *flagMQTTTopic != "" {
		cfg.Topic = *flagMQTTTopic
	}
	if *flagMQTTQoS >= 0 && *flagMQTTQoS <= 2 {
		cfg.QoS = byte(*flagMQTTQoS) // #nosec G115 - validated range 0-2
	}
	if *flagMQTTCACert != "" {
		cfg.CACert = *flagMQTTCACert
	}
	if *flagMQTTClientCert != "" {
		cfg.ClientCert = *flagMQTTClientCert
	}
	if *flagMQTTClientKey != "" {
		cfg.ClientKey = *flagMQTTClientKey
	}
	// Handle bool flags - check if explicitly set
	if isFlagSet("mqtt-tls-enabled") {
		cfg.TLSEnabled = *flagMQTTTLSEnabled
	}
	if isFlagSet("mqtt-tls-insecure-skip") {
		cfg.InsecureSkip = *flagMQTTInsecureSkip
	}
	if isFlagSet("mqtt-use-cert-cn-prefix") {
		cfg.UseCertCNPrefix = *flagMQTTCertCNPrefix
	}
}

func applyPipelineFlags(cfg *PipelineConfig) {
	if *flagPipelineErrorBackoff != 0 {
		cfg.ErrorBackoff = *flagPipelineErrorBackoff
	}
	if *flagPipelineMaxFailures != 0 {
		cfg.MaxConsecutiveFailures = *flagPipelineMaxFailures
	}
}

func applyLogFlags(cfg *LogConfig) {
	if *flagLogLevel != "" {
		cfg.Level = *flagLogLevel
	}
}

// isFlagSet checks if a flag was explicitly set on the command line
func isFlagSet(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
