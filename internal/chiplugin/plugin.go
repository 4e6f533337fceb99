// Package chiplugin turns container modules annotated as controllers into
// routes on a chi router.
//
// When a controller module is created, each declared route is registered on
// the router with the route's middleware modules running ahead of the
// handler. Singleton controllers serve every request from their one
// instance; factory controllers get a fresh instance per request.
package chiplugin

import (
	"context"
	"fmt"
	"reflect"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"routeplug/internal/container"
	"routeplug/internal/metadata"
)

// Extractor reports the controller annotations of a module type.
type Extractor interface {
	HasMetadata(t reflect.Type) bool
	Metadata(t reflect.Type) metadata.Controller
}

// InitFunc is called once with a router created by the plugin.
type InitFunc func(ctx context.Context, app *chi.Mux) error

type Options struct {
	// App is the router to bind routes on. When nil the plugin creates one.
	App *chi.Mux
	// Init runs once on the router the plugin creates. It cannot be combined with App.
	Init InitFunc

	Extractor Extractor
	// ErrorHandler defaults to DefaultErrorHandler.
	ErrorHandler ErrorHandler
	Logger       *zap.SugaredLogger
}

type ChiPlugin struct {
	opts         Options
	app          *chi.Mux
	container    *container.Container
	extractor    Extractor
	errorHandler ErrorHandler
	logger       *zap.SugaredLogger

	// "METHOD path" of every bound route.
	bound map[string]string
}

var _ container.Plugin = (*ChiPlugin)(nil)

func New(opts Options) (*ChiPlugin, error) {
	if opts.App != nil && opts.Init != nil {
		return nil, ErrInitWithApp
	}
	if opts.Extractor == nil {
		return nil, ErrNoExtractor
	}

	p := &ChiPlugin{
		opts:         opts,
		extractor:    opts.Extractor,
		errorHandler: opts.ErrorHandler,
		logger:       opts.Logger,
		bound:        make(map[string]string),
	}
	if p.errorHandler == nil {
		p.errorHandler = DefaultErrorHandler
	}
	if p.logger == nil {
		p.logger = zap.NewNop().Sugar()
	}
	return p, nil
}

// Apply sets up the router, exposes it in the container and starts listening
// for created modules.
func (p *ChiPlugin) Apply(ctx context.Context, c *container.Container) error {
	if p.container != nil {
		return ErrAlreadyApplied
	}
	p.container = c

	if p.opts.App != nil {
		p.app = p.opts.App
	} else {
		p.app = chi.NewRouter()
		if p.opts.Init != nil {
			if err := p.opts.Init(ctx, p.app); err != nil {
				return fmt.Errorf("chiplugin init: %w", err)
			}
		}
	}

	c.AddObject(p.app, appKey{})
	c.Hooks().AfterModuleCreation.Tap(p.handleModule)

	p.logger.Infow("chiplugin_applied", "created_app", p.opts.App == nil)
	return nil
}

// App returns the router once the plugin has been applied.
func (p *ChiPlugin) App() *chi.Mux { return p.app }

type appKey struct{}

// App returns the router a ChiPlugin registered in c.
func App(c *container.Container) (*chi.Mux, bool) {
	v, ok := c.Object(appKey{})
	if !ok {
		return nil, false
	}
	mux, ok := v.(*chi.Mux)
	return mux, ok
}
