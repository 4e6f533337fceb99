// Package ratelimit is a fixed-window rate limit middleware backed by redis.
// It is registered with a factory lifetime: each request gets a limiter
// pinned to the window the request started in.
package ratelimit

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"routeplug/internal/app/auth"
	"routeplug/internal/chiplugin"
)

const window = time.Minute

type Limiter struct {
	client *redis.Client
	limit  int
	logger *zap.SugaredLogger

	windowStart time.Time
}

// New returns a limiter for the current window. A nil client or a limit of
// zero disables limiting.
func New(client *redis.Client, limit int, logger *zap.SugaredLogger, now time.Time) *Limiter {
	return &Limiter{
		client:      client,
		limit:       limit,
		logger:      logger,
		windowStart: now.Truncate(window),
	}
}

func (l *Limiter) Handle(w http.ResponseWriter, r *http.Request, next chiplugin.Next) {
	if l.client == nil || l.limit <= 0 {
		next(nil)
		return
	}

	key := fmt.Sprintf("ratelimit:%s:%d", clientKey(r), l.windowStart.Unix())
	n, err := l.incr(r.Context(), key)
	if err != nil {
		// Fail open.
		l.logger.Warnw("ratelimit_redis_failed", "key", key, "err", err)
		next(nil)
		return
	}

	remaining := l.limit - int(n)
	if remaining < 0 {
		remaining = 0
	}
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

	if int(n) > l.limit {
		retry := time.Until(l.windowStart.Add(window))
		w.Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
		next(chiplugin.StatusError(http.StatusTooManyRequests, "rate limit exceeded"))
		return
	}
	next(nil)
}

func (l *Limiter) incr(ctx context.Context, key string) (int64, error) {
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, key)
		p.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// clientKey prefers the authenticated principal over the client address.
func clientKey(r *http.Request) string {
	if p := auth.Principal(r); p != "" {
		return "principal:" + p
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "addr:" + host
}

var _ chiplugin.Middleware = (*Limiter)(nil)
