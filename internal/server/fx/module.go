package fx

import (
	"go.uber.org/fx"

	"routeplug/internal/server"
)

var Module = fx.Module(
	"http-server",
	fx.Provide(server.NewHTTPServer),
	fx.Invoke(RegisterHTTPServerLifecycle),
)
