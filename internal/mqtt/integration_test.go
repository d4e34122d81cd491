package mqtt

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/log"
	"github.com/ibs-source/champions-bot/internal/message"
)

func setupIntegrationConfig(t *testing.T) *config.MQTTConfig {
	t.Helper()
	return &config.MQTTConfig{
		Broker:               "tcp://localhost:1883",
		ClientID:             "champions-bot-test-" + uuid.NewString(),
		Topic:                "champions-bot-test/" + uuid.NewString(),
		QoS:                  1,
		ConnectTimeout:       time.Second,
		WriteTimeout:         2 * time.Second,
		MaxReconnectInterval: time.Second,
		DisconnectTimeout:    250,
	}
}

func connectOrSkip(t *testing.T, cfg *config.MQTTConfig) *Client {
	t.Helper()
	client, err := NewClient(cfg, log.Discard())
	if err != nil {
		t.Skipf("Skipping MQTT test: %v (broker not available?)", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestIntegration_PublishReply(t *testing.T) {
	cfg := setupIntegrationConfig(t)
	client := connectOrSkip(t, cfg)

	received := make(chan []byte, 1)
	token := client.client.Subscribe(cfg.Topic, cfg.QoS, func(_ paho.Client, msg paho.Message) {
		received <- msg.Payload()
	})
	require.True(t, token.WaitTimeout(2*time.Second))
	require.NoError(t, token.Error())

	event := message.ReplyEvent{
		ID:        uuid.NewString(),
		MessageID: 7,
		ChatID:    99,
		Text:      "Bye Bye... ",
		Sent:      true,
		At:        time.Now().UTC().Truncate(time.Second),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, client.PublishReply(ctx, event))

	select {
	case payload := <-received:
		var got message.ReplyEvent
		require.NoError(t, json.Unmarshal(payload, &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, event.Text, got.Text)
		assert.True(t, got.At.Equal(event.At))
	case <-time.After(3 * time.Second):
		t.Fatal("reply event not received")
	}
}
