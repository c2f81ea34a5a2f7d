package config

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ECONOMIC_SOURCE", "")
	t.Setenv("ECONOMIC_SHEET", "")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, "model/linear_pipeline.json", cfg.ModelPath)
	assert.Empty(t, cfg.ModelServiceURL)
	assert.Equal(t, DefaultEconomicSource, cfg.EconomicSource)
	assert.Empty(t, cfg.EconomicSheet, "empty sheet selects the first sheet")
	assert.Equal(t, 30*time.Second, cfg.StartupTimeout)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MODEL_SERVICE_URL", "http://sidecar:9000")
	t.Setenv("ECONOMIC_SOURCE", "postgres://hdb@db/hdb")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(quietLogger())
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "http://sidecar:9000", cfg.ModelServiceURL)
	assert.Equal(t, "postgres://hdb@db/hdb", cfg.EconomicSource)
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("STARTUP_TIMEOUT", "soon")

	_, err := Load(quietLogger())
	assert.Error(t, err)
}

func TestLevel_Fallback(t *testing.T) {
	cfg := &Config{LogLevel: "chatty"}
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}
