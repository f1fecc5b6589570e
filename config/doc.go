// Package config loads the simulator settings from .env files and PIPESIM_*
// environment variables.
package config
