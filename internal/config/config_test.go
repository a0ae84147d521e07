package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 20, cfg.Discovery.TargetCandidates)
	assert.Contains(t, cfg.Discovery.DomainBlocklist, "facebook.com")
	assert.Contains(t, cfg.Fetch.UserAgent, "SubreconBot")
	assert.Equal(t, 85, cfg.License.MatchThreshold)
	assert.Equal(t, 5, cfg.History.RecentYears)
	assert.Equal(t, 250, cfg.History.WindowChars)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_DefaultWeights(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 0.30, cfg.Score.ExperienceWeight, 1e-9)
	assert.InDelta(t, 0.25, cfg.Score.LicenseWeight, 1e-9)
	assert.InDelta(t, 0.20, cfg.Score.BondingWeight, 1e-9)
	assert.InDelta(t, 0.15, cfg.Score.GeographyWeight, 1e-9)
	assert.InDelta(t, 0.10, cfg.Score.ReputationWeight, 1e-9)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SUBRECON_DISCOVERY_TARGET_CANDIDATES", "35")
	t.Setenv("SUBRECON_LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 35, cfg.Discovery.TargetCandidates)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestPipelineBudget(t *testing.T) {
	assert.Equal(t, 300*time.Second, PipelineConfig{}.Budget())
	assert.Equal(t, 90*time.Second, PipelineConfig{BudgetSecs: 90}.Budget())
}

func TestInitLogger_BadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "verbose", Format: "json"})
	assert.Error(t, err)
}
