package fx

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"routeplug/config"
	"routeplug/internal/app/modules"
	"routeplug/internal/chiplugin"
	"routeplug/internal/container"
	"routeplug/internal/metadata"
)

// ContainerModule provides the module container with the chi plugin applied
// to the host mux. The container is bootstrapped on start, which binds the
// controller routes.
var ContainerModule = fx.Module(
	"container",
	fx.Provide(NewContainer),
)

type containerParams struct {
	fx.In

	Lc     fx.Lifecycle
	Cfg    config.Config
	Mux    *chi.Mux
	Logger *zap.SugaredLogger
	DB     *sqlx.DB
	Redis  *redis.Client `optional:"true"`
}

func NewContainer(p containerParams) (*container.Container, error) {
	reg := metadata.NewRegistry()
	modules.Annotate(reg)

	plugin, err := chiplugin.New(chiplugin.Options{
		App:       p.Mux,
		Extractor: reg,
		Logger:    p.Logger.Named("chiplugin"),
	})
	if err != nil {
		return nil, err
	}

	c := container.New(
		container.WithPlugin(plugin),
		container.WithLogger(p.Logger.Named("container")),
	)
	if err := modules.Register(c, modules.Deps{
		Cfg:    p.Cfg,
		DB:     p.DB,
		Redis:  p.Redis,
		Logger: p.Logger,
	}); err != nil {
		return nil, err
	}

	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return c.Bootstrap(ctx)
		},
	})

	return c, nil
}
