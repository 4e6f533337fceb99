package main

import (
	"go.uber.org/fx"

	cachefx "routeplug/cache/fx"
	dbfx "routeplug/db/fx"
	appfx "routeplug/internal/app/fx"
	healthfx "routeplug/internal/app/health/fx"
	"routeplug/internal/logs"
	routerfx "routeplug/internal/router/fx"
	serverfx "routeplug/internal/server/fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(logs.FxEventLogger),
		appfx.CoreAppOptions,
		dbfx.Module,
		cachefx.Module,
		routerfx.CoreRouterOptions,
		healthfx.Module,
		appfx.ContainerModule,
		serverfx.Module,
	)

	app.Run()
}
