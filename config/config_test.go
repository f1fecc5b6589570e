package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/simulator"
)

func doEnvFile(t *testing.T, lines ...string) string {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	cfg := Default()
	assert.Equal(uint64(simulator.DEFAULT_MAX_CYCLES), cfg.MaxCycles)
	assert.False(cfg.Verbose)
	assert.Zero(cfg.MonitorPort)
	assert.Zero(cfg.PredictorInit)
}

func TestLoadMissing(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(err)
	assert.Equal(Default(), cfg)
}

func TestLoadFile(t *testing.T) {
	assert := assert.New(t)

	path := doEnvFile(t,
		"# settings",
		"PIPESIM_MAX_CYCLES=500",
		"PIPESIM_VERBOSE=true",
		"PIPESIM_TRACE=1",
		"PIPESIM_RECORD=run.sqlite3",
		"PIPESIM_MONITOR_PORT=8080",
		"PIPESIM_PREDICTOR=2",
		"PIPESIM_LANG=fr",
		"UNRELATED=value",
	)

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(Config{
		MaxCycles:     500,
		Verbose:       true,
		Trace:         true,
		RecordPath:    "run.sqlite3",
		MonitorPort:   8080,
		PredictorInit: 2,
		Lang:          "fr",
	}, cfg)
}

func TestLoadEnvironment(t *testing.T) {
	assert := assert.New(t)

	path := doEnvFile(t,
		"PIPESIM_MAX_CYCLES=500",
		"PIPESIM_PREDICTOR=2",
	)

	t.Setenv(ENV_PREDICTOR, "3")
	t.Setenv(ENV_MONITOR_PORT, "9000")

	cfg, err := Load(path)
	assert.NoError(err)
	assert.Equal(uint64(500), cfg.MaxCycles)
	assert.Equal(uint8(3), cfg.PredictorInit)
	assert.Equal(9000, cfg.MonitorPort)
}

func TestLoadInvalid(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		key   string
		value string
	}){
		{ENV_MAX_CYCLES, "0"},
		{ENV_MAX_CYCLES, "many"},
		{ENV_VERBOSE, "sometimes"},
		{ENV_TRACE, "2"},
		{ENV_MONITOR_PORT, "70000"},
		{ENV_MONITOR_PORT, "-1"},
		{ENV_PREDICTOR, "4"},
		{ENV_PREDICTOR, "x"},
	}

	for _, entry := range table {
		t.Run(entry.key+"="+entry.value, func(t *testing.T) {
			t.Setenv(entry.key, entry.value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.ErrorIs(err, ErrConfigValue{})
			assert.ErrorContains(err, entry.key)
		})
	}
}
