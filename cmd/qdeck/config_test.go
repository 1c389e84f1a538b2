package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qtermstab/simulator"
)

func TestConfigFlags(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.FlagSet().Parse([]string{"-n", "3", "--seed", "9", "--bias", "toward-true", "--shots-format", "b8"}))
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 3, cfg.Qubits)
	assert.Equal(t, uint64(9), cfg.Seed)
	assert.Equal(t, simulator.CollapseTowardTrue, cfg.CollapseBias())
	assert.Equal(t, "b8", cfg.ShotsFormat)
	assert.Equal(t, 256, cfg.Shots, "untouched flags keep their defaults")
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"qubits", func(c *Config) { c.Qubits = 0 }},
		{"bias", func(c *Config) { c.Bias = "sideways" }},
		{"shots", func(c *Config) { c.Shots = 0 }},
		{"format", func(c *Config) { c.ShotsFormat = "hits" }},
		{"level", func(c *Config) { c.LogLevel = "loud" }},
		{"terms", func(c *Config) { c.MaxTermQubits = simulator.MaxVectorQubits + 1 }},
	}
	require.NoError(t, NewConfig().Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			require.Error(t, cfg.Validate())
		})
	}
}

func TestOpenLoggerWritesFile(t *testing.T) {
	cfg := NewConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "qdeck.log")
	cfg.LogLevel = "debug"

	logger, closer, err := cfg.OpenLogger()
	require.NoError(t, err)
	logger.Debug("hello", "step", 3)
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "step=3")
}

func TestOpenLoggerWithoutFile(t *testing.T) {
	logger, closer, err := NewConfig().OpenLogger()
	require.NoError(t, err)
	logger.Error("discarded")
	assert.NoError(t, closer.Close())
}
