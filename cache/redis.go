package cache

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"routeplug/config"
)

// NewRedis returns nil when REDIS_HOST is unset; consumers treat a nil client
// as "feature disabled".
func NewRedis(lc fx.Lifecycle, cfg config.Config, log *zap.SugaredLogger) (*redis.Client, error) {
	opts, ok := redisOptions(cfg)
	if !ok {
		log.Infow("redis disabled (missing REDIS_HOST)")
		return nil, nil
	}

	client := redis.NewClient(opts)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := client.Ping(pingCtx).Err(); err != nil {
				_ = client.Close()
				return fmt.Errorf("redis ping failed: %w", err)
			}
			log.Infow("redis connected", "addr", opts.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if err := client.Close(); err != nil {
				log.Warnw("redis close failed", "err", err)
			}
			return nil
		},
	})

	return client, nil
}

func redisOptions(cfg config.Config) (*redis.Options, bool) {
	if strings.TrimSpace(cfg.RedisHost) == "" {
		return nil, false
	}

	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", strings.TrimSpace(cfg.RedisHost), cfg.RedisPort),
		Username:     strings.TrimSpace(cfg.RedisUser),
		Password:     cfg.RedisPassword,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
	if strings.EqualFold(strings.TrimSpace(cfg.RedisScheme), "rediss") {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts, true
}
