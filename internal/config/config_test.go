package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8084", cfg.Server.Port)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "80mm", cfg.Printing.DefaultPaper)
	assert.Equal(t, 100, cfg.Bluetooth.ChunkSize)
	assert.Equal(t, 20*time.Millisecond, cfg.Bluetooth.ChunkDelay)
	assert.Equal(t, "direct", cfg.Network.RelayMode)
	assert.Equal(t, 9100, cfg.Network.DefaultPort)
	assert.Len(t, cfg.Bluetooth.ServiceUUIDs, 4)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("RECEIPT_SERVICE_PRINTING_DEFAULT_PAPER", "58mm")
	t.Setenv("RECEIPT_SERVICE_SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "58mm", cfg.Printing.DefaultPaper)
	assert.Equal(t, "0.0.0.0:9000", cfg.GetServerAddr())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:    ServerConfig{Host: "0.0.0.0", Port: "8084"},
			Logging:   LoggingConfig{Level: "info"},
			Printing:  PrintingConfig{DefaultPaper: "58mm"},
			Network:   NetworkConfig{RelayMode: "direct"},
			Bluetooth: BluetoothConfig{ChunkSize: 100},
			App:       AppConfig{Environment: "test"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "missing port", mutate: func(c *Config) { c.Server.Port = "" }, wantErr: "server.port is required"},
		{name: "database host", mutate: func(c *Config) { c.Database.Enabled = true }, wantErr: "database.host is required"},
		{name: "environment", mutate: func(c *Config) { c.App.Environment = "qa" }, wantErr: "app.environment"},
		{name: "log level", mutate: func(c *Config) { c.Logging.Level = "trace" }, wantErr: "logging.level"},
		{name: "paper", mutate: func(c *Config) { c.Printing.DefaultPaper = "110mm" }, wantErr: "printing.default_paper"},
		{name: "relay mode", mutate: func(c *Config) { c.Network.RelayMode = "mqtt" }, wantErr: "network.relay_mode"},
		{name: "agent key", mutate: func(c *Config) { c.Network.RelayMode = "agent" }, wantErr: "relay.agent_key"},
		{name: "chunk size", mutate: func(c *Config) { c.Bluetooth.ChunkSize = 0 }, wantErr: "bluetooth.chunk_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := validate(&cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := &Config{Printing: PrintingConfig{Timezone: "Nowhere/Special"}}
	assert.Equal(t, time.UTC, cfg.Location())
}
