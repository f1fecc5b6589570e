// Package trace provides pipeline hooks that report every cycle, either as
// text or as rows of a SQLite database.
package trace
