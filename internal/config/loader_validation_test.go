package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Defaults(t *testing.T) {
	require.NoError(t, Validate(defaultConfig()))
}

func TestValidate_MissingCredentialsAreAccepted(t *testing.T) {
	cfg := defaultConfig()
	cfg.Telegram.Token = ""
	cfg.Bot.Secret = ""
	assert.NoError(t, Validate(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantError string
	}{
		{
			name:      "empty base URL",
			mutate:    func(c *Config) { c.Telegram.BaseURL = "" },
			wantError: "telegram base URL cannot be empty",
		},
		{
			name:      "page size zero",
			mutate:    func(c *Config) { c.Telegram.PageSize = 0 },
			wantError: "telegram page size must be between 1 and 100",
		},
		{
			name:      "page size above provider limit",
			mutate:    func(c *Config) { c.Telegram.PageSize = 101 },
			wantError: "telegram page size must be between 1 and 100",
		},
		{
			name: "poll timeout not shorter than request timeout",
			mutate: func(c *Config) {
				c.Telegram.PollTimeout = 30 * time.Second
				c.Telegram.RequestTimeout = 30 * time.Second
			},
			wantError: "telegram poll timeout must be non-negative and shorter than the request timeout",
		},
		{
			name:      "same column twice",
			mutate:    func(c *Config) { c.Scrape.ChampionColumn = c.Scrape.TitleColumn },
			wantError: "scrape title and champion columns must differ",
		},
		{
			name:      "negative column",
			mutate:    func(c *Config) { c.Scrape.TitleColumn = -1 },
			wantError: "scrape columns must be non-negative",
		},
		{
			name:      "empty server address",
			mutate:    func(c *Config) { c.Server.Address = "" },
			wantError: "server address cannot be empty",
		},
		{
			name: "redis enabled without TTL",
			mutate: func(c *Config) {
				c.Redis.Address = "localhost:6379"
				c.Redis.TTL = 0
			},
			wantError: "redis TTL must be positive",
		},
		{
			name:   "redis disabled ignores TTL",
			mutate: func(c *Config) { c.Redis.TTL = 0 },
		},
		{
			name: "mqtt enabled without topic",
			mutate: func(c *Config) {
				c.MQTT.Broker = "tcp://localhost:1883"
				c.MQTT.Topic = ""
			},
			wantError: "mqtt topic cannot be empty",
		},
		{
			name:      "no failures tolerated",
			mutate:    func(c *Config) { c.Pipeline.MaxConsecutiveFailures = 0 },
			wantError: "pipeline max consecutive failures must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantError, err.Error())
		})
	}
}

func TestApplyRuntimeValidation(t *testing.T) {
	cfg := defaultConfig()
	cfg.Telegram.BaseURL = "https://api.telegram.org///"
	cfg.Bot.Secret = "\tbye\n"

	require.NoError(t, applyRuntimeValidation(cfg))
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.BaseURL)
	assert.Equal(t, "bye", cfg.Bot.Secret)
}

func TestApplyTopicPrefix_MissingCertificate(t *testing.T) {
	cfg := defaultConfig()
	cfg.MQTT.UseCertCNPrefix = true
	cfg.MQTT.ClientCert = "/nonexistent/cert.pem"

	err := applyTopicPrefix(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract CN from certificate")
}
