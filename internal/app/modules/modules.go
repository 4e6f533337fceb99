// Package modules registers the application's modules in a container and
// declares their controller annotations.
package modules

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"routeplug/config"
	"routeplug/internal/app/auth"
	"routeplug/internal/app/items"
	"routeplug/internal/app/probe"
	"routeplug/internal/app/ratelimit"
	"routeplug/internal/chiplugin"
	"routeplug/internal/container"
	"routeplug/internal/metadata"
)

const (
	Auth            = "auth"
	RateLimit       = "ratelimit"
	ItemsStore      = "items.store"
	ItemsController = "items.controller"
	ProbeController = "probe.controller"
)

type Deps struct {
	Cfg    config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	Logger *zap.SugaredLogger
}

// Annotate declares every controller's routes in reg.
func Annotate(reg *metadata.Registry) {
	items.Annotate(reg, Auth, RateLimit)
	probe.Annotate(reg)
}

func Register(c *container.Container, d Deps) error {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	regs := []func() error{
		func() error {
			return container.Provide(c, Auth, container.Singleton, func(ctx context.Context, c *container.Container) (chiplugin.Middleware, error) {
				return auth.NewMiddleware(d.Cfg.AuthTokens), nil
			})
		},
		func() error {
			return container.Provide(c, RateLimit, container.Factory, func(ctx context.Context, c *container.Container) (*ratelimit.Limiter, error) {
				return ratelimit.New(d.Redis, d.Cfg.RateLimitPerMinute, logger, time.Now()), nil
			})
		},
		func() error {
			return container.Provide(c, ItemsStore, container.Singleton, func(ctx context.Context, c *container.Container) (*items.Store, error) {
				return items.NewStore(d.DB), nil
			})
		},
		func() error {
			return container.Provide(c, ItemsController, container.Singleton, func(ctx context.Context, c *container.Container) (*items.Controller, error) {
				store, err := container.Get[*items.Store](ctx, c, ItemsStore)
				if err != nil {
					return nil, err
				}
				return items.NewController(store, logger.Named("items")), nil
			})
		},
		func() error {
			return container.Provide(c, ProbeController, container.Factory, func(ctx context.Context, c *container.Container) (*probe.Controller, error) {
				return probe.NewController(), nil
			})
		},
	}

	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}
