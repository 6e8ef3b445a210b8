package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testConfig() *Config {
	return &Config{
		App: AppConfig{Env: "development"},
		API: APIConfig{
			ProductionURL:  "https://api.example.com",
			DevelopmentURL: "http://localhost:5000",
		},
	}
}

func TestBaseURLOverrideWins(t *testing.T) {
	cfg := testConfig()
	cfg.API.Override = "http://127.0.0.1:9999"

	assert.Equal(t, "http://127.0.0.1:9999", cfg.BaseURL())
}

func TestBaseURLEnvironmentDefaults(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, "http://localhost:5000", cfg.BaseURL())

	cfg.App.Env = "production"
	assert.Equal(t, "https://api.example.com", cfg.BaseURL())
}

func TestBaseURLRecomputedPerCall(t *testing.T) {
	cfg := testConfig()

	assert.Equal(t, "http://localhost:5000", cfg.BaseURL())

	// Swapping the environment must take effect on the next call; nothing
	// may be cached at first resolution.
	cfg.App.Env = "production"
	assert.Equal(t, "https://api.example.com", cfg.BaseURL())

	cfg.API.Override = "http://override.local"
	assert.Equal(t, "http://override.local", cfg.BaseURL())
}

func TestBaseURLUnknownEnvFallsBackToDevelopment(t *testing.T) {
	cfg := testConfig()
	cfg.App.Env = "staging"

	assert.Equal(t, "http://localhost:5000", cfg.BaseURL())
}
