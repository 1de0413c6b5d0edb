package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "8081", cfg.API.Port)
	assert.Equal(t, "voice-assistant-failures.csv", cfg.Data.File)
	assert.Equal(t, int64(42), cfg.Data.SampleSeed)
	assert.Equal(t, 120, cfg.Data.SampleRows)
}

func TestLoadParsesNumericEnv(t *testing.T) {
	t.Setenv("SAMPLE_SEED", "7")
	t.Setenv("SAMPLE_ROWS", "50")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Data.SampleSeed)
	assert.Equal(t, 50, cfg.Data.SampleRows)
}

func TestLoadIgnoresMalformedNumericEnv(t *testing.T) {
	t.Setenv("SAMPLE_ROWS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Data.SampleRows)
}

func TestLoadRejectsNonPositiveSampleRows(t *testing.T) {
	t.Setenv("SAMPLE_ROWS", "-1")

	_, err := Load()
	require.Error(t, err)
}
