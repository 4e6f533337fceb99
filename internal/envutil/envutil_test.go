package envutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestString(t *testing.T) {
	t.Parallel()

	getenv := env(map[string]string{"ADDR": "  http://x:1  ", "BLANK": "   "})
	require.Equal(t, "http://x:1", String(getenv, "ADDR", "def"))
	require.Equal(t, "def", String(getenv, "BLANK", "def"))
	require.Equal(t, "def", String(getenv, "MISSING", "def"))
}

func TestDuration(t *testing.T) {
	t.Parallel()

	getenv := env(map[string]string{"OK": "750ms", "BAD": "soon", "NEG": "-1s"})
	require.Equal(t, 750*time.Millisecond, Duration(getenv, "OK", time.Second))
	require.Equal(t, time.Second, Duration(getenv, "BAD", time.Second))
	require.Equal(t, time.Second, Duration(getenv, "NEG", time.Second))
	require.Equal(t, time.Second, Duration(getenv, "MISSING", time.Second))
}
