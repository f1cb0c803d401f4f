package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.True(t, cfg.Mock.Enabled)
	assert.Equal(t, 100*time.Millisecond, cfg.Mock.LatencyMin)
	assert.Equal(t, 300*time.Millisecond, cfg.Mock.LatencyMax)
	assert.Equal(t, []string{"localhost:8080", "127.0.0.1:8080"}, cfg.Mock.Hosts)
	assert.Equal(t, PreferencesFile, cfg.Preferences.Backend)
}

func TestLoadProductionDisablesMockByDefault(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("API_BASE_URL", "https://attendance.example.com/api/v1/")

	cfg, err := Load()
	require.NoError(t, err)

	assert.False(t, cfg.Mock.Enabled)
	assert.Equal(t, "https://attendance.example.com/api/v1", cfg.APIBaseURL)
}

func TestLoadMockOverrides(t *testing.T) {
	t.Setenv("ENV", EnvProduction)
	t.Setenv("MOCK_ENABLED", "true")
	t.Setenv("MOCK_LATENCY_MIN", "50ms")
	t.Setenv("MOCK_LATENCY_MAX", "10ms")
	t.Setenv("MOCK_STUDENTS", "-3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Mock.Enabled)
	assert.Equal(t, 50*time.Millisecond, cfg.Mock.LatencyMin)
	assert.Equal(t, 50*time.Millisecond, cfg.Mock.LatencyMax, "max is clamped to min")
	assert.Equal(t, 50, cfg.Mock.Students)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Nil(t, splitAndTrim(""))
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a , ,b "))
}
