package mqtt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibs-source/champions-bot/internal/config"
	"github.com/ibs-source/champions-bot/internal/message"
)

func TestNewTLSConfig(t *testing.T) {
	certs := writeTestCertificates(t)

	t.Run("ValidTLSWithCA", func(t *testing.T) {
		tlsConfig, err := newTLSConfig(&config.MQTTConfig{TLSEnabled: true, CACert: certs.CACert})
		require.NoError(t, err)
		assert.NotNil(t, tlsConfig.RootCAs)
		assert.False(t, tlsConfig.InsecureSkipVerify)
	})

	t.Run("ValidTLSWithClientCert", func(t *testing.T) {
		tlsConfig, err := newTLSConfig(&config.MQTTConfig{
			TLSEnabled: true,
			CACert:     certs.CACert,
			ClientCert: certs.ClientCert,
			ClientKey:  certs.ClientKey,
		})
		require.NoError(t, err)
		assert.Len(t, tlsConfig.Certificates, 1)
		assert.NotNil(t, tlsConfig.RootCAs)
	})

	t.Run("OnlyClientCertNoCA", func(t *testing.T) {
		tlsConfig, err := newTLSConfig(&config.MQTTConfig{
			TLSEnabled: true,
			ClientCert: certs.ClientCert,
			ClientKey:  certs.ClientKey,
		})
		require.NoError(t, err)
		assert.Len(t, tlsConfig.Certificates, 1)
		assert.Nil(t, tlsConfig.RootCAs)
	})

	t.Run("InsecureSkipVerify", func(t *testing.T) {
		tlsConfig, err := newTLSConfig(&config.MQTTConfig{TLSEnabled: true, InsecureSkip: true})
		require.NoError(t, err)
		assert.True(t, tlsConfig.InsecureSkipVerify)
	})

	t.Run("EmptyCACert", func(t *testing.T) {
		tlsConfig, err := newTLSConfig(&config.MQTTConfig{TLSEnabled: true})
		require.NoError(t, err)
		assert.Nil(t, tlsConfig.RootCAs)
	})

	failures := []struct {
		name string
		cfg  config.MQTTConfig
		want string
	}{
		{
			name: "InvalidCACert",
			cfg:  config.MQTTConfig{CACert: "/nonexistent/ca.crt"},
			want: "failed to read CA cert",
		},
		{
			name: "CorruptedCACert",
			cfg:  config.MQTTConfig{CACert: certs.NotACert},
			want: "failed to parse CA cert",
		},
		{
			name: "InvalidClientCert",
			cfg:  config.MQTTConfig{ClientCert: "/nonexistent/client.crt", ClientKey: "/nonexistent/client.key"},
			want: "failed to load client cert/key",
		},
		{
			name: "MismatchedClientCertKey",
			cfg:  config.MQTTConfig{ClientCert: certs.ClientCert, ClientKey: certs.CACert},
			want: "failed to load client cert/key",
		},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			tt.cfg.TLSEnabled = true
			_, err := newTLSConfig(&tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	assert.NoError(t, p.PublishReply(context.Background(), message.ReplyEvent{ID: "x"}))
	assert.NoError(t, p.Close())
}

func TestCloseWithoutConnection(t *testing.T) {
	c := &Client{}
	assert.NoError(t, c.Close())
}
