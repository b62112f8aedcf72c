package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Setenv("BOT_CONFIG", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 70, cfg.Strategy.HealthThreshold)
	assert.Equal(t, 1.0, cfg.Strategy.AdjacencyDistance)
}

func TestLoad_MergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
strategy:
  health_threshold: 50
server:
  rest_port: 9000
eventbus:
  url: nats://localhost:4222
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Strategy.HealthThreshold)
	assert.Equal(t, 1.0, cfg.Strategy.AdjacencyDistance)
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
	assert.Equal(t, "nats://localhost:4222", cfg.EventBus.URL)
	assert.Equal(t, "bot", cfg.EventBus.SubjectPrefix)
	assert.Equal(t, 24*time.Hour, cfg.EventBus.Retention)
	assert.Equal(t, "INFO", cfg.Logging.ConsoleLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	path := writeConfig(t, "telemetry:\n  enabled: true\n")
	t.Setenv("BOT_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "aicup-bot", cfg.Telemetry.ServiceName)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeConfig(t, "strategy: [1, 2"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "strategy:\n  adjacency_distance: 0\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "strategy:\n  health_threshold: -1\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "telemetry:\n  sample_ratio: 1.5\n"))
	assert.Error(t, err)
}

func TestLoad_ComponentsAndRetention(t *testing.T) {
	path := writeConfig(t, `
logging:
  components:
    runner: TRACE
eventbus:
  retention: 2h
telemetry:
  sample_ratio: 0.5
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"runner": "TRACE"}, cfg.Logging.Components)
	assert.Equal(t, 2*time.Hour, cfg.EventBus.Retention)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRatio)
	assert.Equal(t, "DECISIONS", cfg.EventBus.Stream)
}

func TestPortFallback(t *testing.T) {
	var s ServerConfig

	t.Setenv("BOT_REST_PORT", "")
	t.Setenv("BOT_METRICS_PORT", "")
	assert.Equal(t, 8088, s.GetRESTPort())
	assert.Equal(t, 2112, s.GetMetricsPort())

	t.Setenv("BOT_REST_PORT", "9100")
	t.Setenv("BOT_METRICS_PORT", "not-a-port")
	assert.Equal(t, 9100, s.GetRESTPort())
	assert.Equal(t, 2112, s.GetMetricsPort())

	s.RESTPort = 7000
	assert.Equal(t, 7000, s.GetRESTPort())
}
