package chiplugin

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"routeplug/internal/container"
)

// Next continues a middleware chain. A non-nil error aborts the chain and is
// handed to the ErrorHandler; nil runs the next middleware, or the route
// handler after the last one. Next must be called before Handle returns.
type Next func(err error)

// Middleware is implemented by middleware modules.
type Middleware interface {
	Handle(w http.ResponseWriter, r *http.Request, next Next)
}

type MiddlewareFunc func(w http.ResponseWriter, r *http.Request, next Next)

func (f MiddlewareFunc) Handle(w http.ResponseWriter, r *http.Request, next Next) {
	f(w, r, next)
}

// routeMiddleware builds the chi middleware that runs modules ahead of a
// route handler. Instances are resolved per request before any of them runs.
func (p *ChiPlugin) routeMiddleware(modules []*container.Module) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r = withLocals(r)

			chain, err := resolveChain(r.Context(), modules)
			if err != nil {
				p.errorHandler(w, r, err)
				return
			}

			executeChain(chain, w, r, func(err error) {
				if err != nil {
					p.errorHandler(w, r, err)
					return
				}
				next.ServeHTTP(w, r)
			})
		})
	}
}

func resolveChain(ctx context.Context, modules []*container.Module) ([]Middleware, error) {
	chain := make([]Middleware, 0, len(modules))
	for _, m := range modules {
		inst, err := m.Resolve(ctx)
		if err != nil {
			return nil, err
		}
		mw, ok := inst.(Middleware)
		if !ok {
			return nil, fmt.Errorf("module %q (%T): %w", m.Metadata().Name, inst, ErrNotMiddleware)
		}
		chain = append(chain, mw)
	}
	return chain, nil
}

// executeChain walks chain with a cursor. done receives the first error, or
// nil once every middleware has continued.
func executeChain(chain []Middleware, w http.ResponseWriter, r *http.Request, done func(error)) {
	var step func(i int)
	step = func(i int) {
		if i >= len(chain) {
			done(nil)
			return
		}

		var called atomic.Bool
		chain[i].Handle(w, r, func(err error) {
			if !called.CompareAndSwap(false, true) {
				return
			}
			if err != nil {
				done(err)
				return
			}
			step(i + 1)
		})
	}
	step(0)
}
