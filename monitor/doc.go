// Package monitor serves a running simulation over HTTP, so that it can be
// inspected and stepped from a browser or a script.
package monitor
