package config

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/pipeline"
	"github.com/AbdelrahmanWaelH/MIPS32-Architecture/simulator"
)

const (
	ENV_PREFIX       = "PIPESIM_"
	ENV_MAX_CYCLES   = "PIPESIM_MAX_CYCLES"
	ENV_VERBOSE      = "PIPESIM_VERBOSE"
	ENV_TRACE        = "PIPESIM_TRACE"
	ENV_RECORD       = "PIPESIM_RECORD"
	ENV_MONITOR_PORT = "PIPESIM_MONITOR_PORT"
	ENV_PREDICTOR    = "PIPESIM_PREDICTOR"
	ENV_LANG         = "PIPESIM_LANG"
)

// DEFAULT_FILE is the settings file read when none is named.
const DEFAULT_FILE = ".env"

// Config holds the simulator settings.
type Config struct {
	MaxCycles     uint64 // Cycle cap of a run.
	Verbose       bool   // Verbose logging.
	Trace         bool   // Print every cycle.
	RecordPath    string // SQLite trace recording, if set.
	MonitorPort   int    // Monitor server port, 0 for any free port.
	PredictorInit uint8  // Initial branch predictor counter.
	Lang          string // Message language, empty for the system locale.
}

// Default returns the default settings.
func Default() Config {
	return Config{
		MaxCycles: simulator.DEFAULT_MAX_CYCLES,
	}
}

// Load reads the settings from the named .env files, or DEFAULT_FILE if
// none are named, then from the process environment. Missing files are
// ignored. The environment wins over the files.
func Load(files ...string) (cfg Config, err error) {
	cfg = Default()

	if len(files) == 0 {
		files = []string{DEFAULT_FILE}
	}

	values := map[string]string{}
	for _, file := range files {
		var env map[string]string
		env, err = godotenv.Read(file)
		if errors.Is(err, fs.ErrNotExist) {
			err = nil
			continue
		}
		if err != nil {
			return
		}
		for key, value := range env {
			values[key] = value
		}
	}

	for _, key := range []string{ENV_MAX_CYCLES, ENV_VERBOSE, ENV_TRACE, ENV_RECORD, ENV_MONITOR_PORT, ENV_PREDICTOR, ENV_LANG} {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}

	err = cfg.apply(values)

	return
}

func (cfg *Config) apply(values map[string]string) (err error) {
	var errs []error

	for key, value := range values {
		var perr error
		switch key {
		case ENV_MAX_CYCLES:
			var n uint64
			n, perr = strconv.ParseUint(value, 0, 64)
			if perr == nil && n == 0 {
				perr = errors.New(f("must be positive"))
			}
			if perr == nil {
				cfg.MaxCycles = n
			}
		case ENV_VERBOSE:
			cfg.Verbose, perr = strconv.ParseBool(value)
		case ENV_TRACE:
			cfg.Trace, perr = strconv.ParseBool(value)
		case ENV_RECORD:
			cfg.RecordPath = value
		case ENV_MONITOR_PORT:
			var n uint64
			n, perr = strconv.ParseUint(value, 10, 16)
			if perr == nil {
				cfg.MonitorPort = int(n)
			}
		case ENV_PREDICTOR:
			var n uint64
			n, perr = strconv.ParseUint(value, 0, 8)
			if perr == nil && n > pipeline.PREDICTOR_MAX {
				perr = errors.New(f("must be 0 to %d", pipeline.PREDICTOR_MAX))
			}
			if perr == nil {
				cfg.PredictorInit = uint8(n)
			}
		case ENV_LANG:
			cfg.Lang = value
		default:
			if strings.HasPrefix(key, ENV_PREFIX) {
				log.Printf("config: ignoring %s", key)
			}
		}
		if perr != nil {
			errs = append(errs, ErrConfigValue{Name: key, Value: value, Err: perr})
		}
	}

	err = errors.Join(errs...)

	return
}
