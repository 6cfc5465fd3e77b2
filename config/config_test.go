// Copyright (c) 2025 privateLINE, LLC.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3*time.Minute, cfg.Timeouts.DefaultResponse)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Hello)
	assert.Equal(t, 11*time.Second, cfg.Timeouts.ServersList)
	assert.Equal(t, 4, cfg.Ping.RetryCount)
	assert.Equal(t, 4000, cfg.Ping.TimeoutMs)
	assert.Equal(t, 3, cfg.GeoLookup.Retries)
	assert.Equal(t, "3.3.0", cfg.MinRequiredDaemonVersion)
}

func TestParseOverDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
transport: WebSocket
websocket_port: 8000
timeouts:
  hello: 2s
ping:
  retry_count: 2
`))
	require.NoError(t, err)

	assert.Equal(t, TransportWebSocket, cfg.Transport)
	assert.Equal(t, 8000, cfg.WebSocketPort)
	assert.Equal(t, 2*time.Second, cfg.Timeouts.Hello)
	assert.Equal(t, 11*time.Second, cfg.Timeouts.ServersList) // default kept
	assert.Equal(t, 2, cfg.Ping.RetryCount)
	assert.Equal(t, 4000, cfg.Ping.TimeoutMs)
}

func TestParseEmpty(t *testing.T) {
	cfg, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "no_such_key: 1"},
		{"bad transport", "transport: udp"},
		{"bad timeout", "timeouts:\n  hello: 0s"},
		{"bad ping", "ping:\n  timeout_ms: -1"},
		{"bad websocket port", "transport: websocket\nwebsocket_port: 70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("client_name: test-ui\nclient_version: 1.2.3\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1.2.3:test-ui", cfg.ClientVersionString())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
