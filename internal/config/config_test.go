package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 30, cfg.MaxTestsPerEndpoint)
	assert.Equal(t, 10, cfg.IDORCount)
	assert.Equal(t, 5, cfg.AuthBypassCount)
	assert.Equal(t, 10, cfg.MethodConfusionCount)
	assert.Equal(t, 5, cfg.MassAssignmentCount)
	assert.False(t, cfg.AllowDestructive)
	assert.Equal(t, 5, cfg.Concurrency)
	assert.Equal(t, 2.0, cfg.RatePerSecond)
	assert.Equal(t, 20*1024, cfg.MaxBodyBytes)
	assert.Equal(t, 0.30, cfg.LengthDiffThreshold)
	assert.Equal(t, "User-Agent", cfg.ResearcherHeaderName)
	assert.Equal(t, "surfacerecon/1.0", cfg.ResearcherHeaderValue)
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("SURFACERECON_MAX_TESTS", "15")
	t.Setenv("SURFACERECON_RATE", "4.5")
	t.Setenv("SURFACERECON_ALLOW_DESTRUCTIVE", "true")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 15, cfg.MaxTestsPerEndpoint)
	assert.Equal(t, 4.5, cfg.RatePerSecond)
	assert.True(t, cfg.AllowDestructive)
}
