package fx

import (
	"go.uber.org/fx"

	"routeplug/internal/app/health"
	"routeplug/internal/router"
)

var Module = fx.Module(
	"health",
	fx.Provide(router.AsRoute(health.NewHandler)),
)
