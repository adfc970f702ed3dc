package airouter_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	ar "github.com/notevault/airouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProviderConfig() ar.ProviderConfig {
	return ar.ProviderConfig{Key: "p", DeclaredLatencyMS: 100, QualityTier: 5}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("empty providers", func(t *testing.T) {
		err := ar.Config{}.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "at least one provider")
	})

	t.Run("missing key", func(t *testing.T) {
		cfg := ar.Config{Providers: []ar.ProviderConfig{{DeclaredLatencyMS: 100, QualityTier: 5}}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "key is required")
	})

	t.Run("duplicate key", func(t *testing.T) {
		cfg := ar.Config{Providers: []ar.ProviderConfig{validProviderConfig(), validProviderConfig()}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("missing declared latency", func(t *testing.T) {
		cfg := ar.Config{Providers: []ar.ProviderConfig{{Key: "p", QualityTier: 5}}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "declared_latency_ms")
	})

	t.Run("quality tier out of range", func(t *testing.T) {
		cfg := ar.Config{Providers: []ar.ProviderConfig{{Key: "p", DeclaredLatencyMS: 100, QualityTier: 11}}}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "quality_tier")
	})

	t.Run("negative cost", func(t *testing.T) {
		pc := validProviderConfig()
		pc.CostUnits = -1
		err := ar.Config{Providers: []ar.ProviderConfig{pc}}.Validate()
		assert.Error(t, err)
	})

	t.Run("invalid dispatch mode", func(t *testing.T) {
		cfg := ar.Config{
			DispatchMode: "yolo",
			Providers:    []ar.ProviderConfig{validProviderConfig()},
		}
		err := cfg.Validate()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "dispatch_mode")
	})

	t.Run("valid config", func(t *testing.T) {
		cfg := ar.Config{
			DispatchMode: ar.DispatchSequential,
			RaceWidth:    3,
			Providers:    []ar.ProviderConfig{validProviderConfig()},
		}
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadConfig_ExpandsEnvAndParses(t *testing.T) {
	t.Setenv("TEST_ROUTER_API_KEY", "sk-test-123")

	raw := `
dispatch_mode: auto
race_width: 2
tracker_capacity: 25

providers:
  - key: fastai
    base_url: https://fastai.example.com
    api_key: ${TEST_ROUTER_API_KEY}
    cost_units: 0.01
    declared_latency_ms: 120
    quality_tier: 6
    timeout_ms: 5000
`
	path := filepath.Join(t.TempDir(), "router.yaml")
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))

	cfg, err := ar.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, ar.DispatchAuto, cfg.DispatchMode)
	assert.Equal(t, 2, cfg.RaceWidth)
	assert.Equal(t, 25, cfg.TrackerCapacity)
	require.Len(t, cfg.Providers, 1)
	assert.Equal(t, "sk-test-123", cfg.Providers[0].APIKey)

	profile := cfg.Providers[0].Profile()
	assert.Equal(t, 120*time.Millisecond, profile.DeclaredLatency)
	assert.Equal(t, 5*time.Second, profile.DefaultTimeout)
	assert.Equal(t, 6, profile.QualityTier)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := ar.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("providers: {not: a list}"), 0o600))
	_, err = ar.LoadConfig(path)
	assert.Error(t, err)
}
