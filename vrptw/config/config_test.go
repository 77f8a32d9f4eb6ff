package config_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vrptwms/solver/vrptw/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, config.ACO, cfg.Metaheuristic)
	assert.Equal(t, config.Solomon, cfg.StartHeuristic)
}

func TestValidateRejectsNoBudget(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.RunTime = 0
	cfg.MaxIterations = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrNoBudget)
}

func TestValidateRejectsZeroWorkers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxWorkers = 0
	assert.ErrorIs(t, cfg.Validate(), config.ErrNoWorkers)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	src := "metaheuristic = grasp\nrho = 0.9\nruntime = 30\n# a comment\nuse_weights = false\n"
	require.NoError(t, config.LoadFile(strings.NewReader(src), &cfg))
	assert.Equal(t, config.GRASP, cfg.Metaheuristic)
	assert.InDelta(t, 0.9, cfg.Rho, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.RunTime)
	assert.False(t, cfg.UseWeights)
}

func TestLoadFileRejectsUnknownKey(t *testing.T) {
	cfg := config.DefaultConfig()
	err := config.LoadFile(strings.NewReader("bogus_key = 1\n"), &cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrUnknownKey)
}
