// Package envutil reads devtool defaults from the environment.
package envutil

import (
	"strings"
	"time"
)

// String returns the trimmed value of key, or def when unset.
func String(getenv func(string) string, key, def string) string {
	if v := strings.TrimSpace(getenv(key)); v != "" {
		return v
	}
	return def
}

// Duration parses key with time.ParseDuration. Empty, malformed or
// non-positive values yield def.
func Duration(getenv func(string) string, key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
