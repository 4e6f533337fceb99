package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"routeplug/config"
)

func TestControllerRoutes(t *testing.T) {
	t.Parallel()

	rows, err := controllerRoutes(context.Background(), config.Config{RateLimitPerMinute: 1})
	require.NoError(t, err)

	require.Equal(t, []routeRow{
		{method: "GET", path: "/v1/items", middlewares: 0},
		{method: "POST", path: "/v1/items", middlewares: 1},
		{method: "DELETE", path: "/v1/items/{id}", middlewares: 1},
		{method: "GET", path: "/v1/items/{id}", middlewares: 0},
		{method: "GET", path: "/v1/probe", middlewares: 0},
	}, rows)

	var buf bytes.Buffer
	require.NoError(t, printRoutes(&buf, rows))
	require.Contains(t, buf.String(), "POST    /v1/items")
}
