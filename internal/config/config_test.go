package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "orders", cfg.Sheets.OrdersTable)
	assert.Equal(t, "line_items", cfg.Sheets.LineItemsTable)
	assert.Equal(t, "json", cfg.Logging.Format)
	require.NoError(t, cfg.validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "port zero",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid server port",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "timeouts must be positive",
		},
		{
			name:    "missing orders table",
			mutate:  func(c *Config) { c.Sheets.OrdersTable = "" },
			wantErr: "table names must not be empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_RepairsSoftFields(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "text"
	cfg.Sheets.RequestsPerSecond = -1
	cfg.Sheets.Burst = 0

	require.NoError(t, cfg.validate())
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, float64(1), cfg.Sheets.RequestsPerSecond)
	assert.Equal(t, 1, cfg.Sheets.Burst)
}

func TestMerge_EnvWins(t *testing.T) {
	file := *Default()
	file.Server.Port = 9999
	file.Sheets.DatasetID = "file-dataset"
	file.Logging.Level = "debug"

	env := Config{}
	env.Server.Port = 3000
	env.Server.ReadTimeout = 5 * time.Second

	merged := merge(file, env)

	assert.Equal(t, 3000, merged.Server.Port, "env value kept")
	assert.Equal(t, 5*time.Second, merged.Server.ReadTimeout)
	assert.Equal(t, "file-dataset", merged.Sheets.DatasetID, "file fills unset fields")
	assert.Equal(t, "debug", merged.Logging.Level)
	assert.Equal(t, file.Server.WriteTimeout, merged.Server.WriteTimeout)
}
