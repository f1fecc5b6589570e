// Package simulator runs an assembled program on the pipeline engine, and
// maps the engine's faults back to source lines.
package simulator
