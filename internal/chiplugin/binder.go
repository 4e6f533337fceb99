package chiplugin

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"

	"routeplug/internal/container"
	"routeplug/internal/metadata"
)

// Verbs chi accepts in Mux.Method.
var supportedMethods = map[string]struct{}{
	http.MethodGet:     {},
	http.MethodHead:    {},
	http.MethodPost:    {},
	http.MethodPut:     {},
	http.MethodPatch:   {},
	http.MethodDelete:  {},
	http.MethodConnect: {},
	http.MethodOptions: {},
	http.MethodTrace:   {},
}

// handleModule binds the routes of a controller module. Modules without
// controller metadata are ignored.
func (p *ChiPlugin) handleModule(m *container.Module) error {
	meta := m.Metadata()
	if !p.extractor.HasMetadata(meta.Type) {
		return nil
	}

	md := p.extractor.Metadata(meta.Type)
	for _, route := range md.Routes {
		if err := p.bindRoute(m, route, md.Middlewares); err != nil {
			return fmt.Errorf("controller %q route %s %s: %w", meta.Name, route.Method, route.Path, err)
		}
	}
	return nil
}

func (p *ChiPlugin) bindRoute(m *container.Module, route metadata.Route, bindings []metadata.MiddlewareBinding) error {
	method := strings.ToUpper(strings.TrimSpace(route.Method))
	if _, ok := supportedMethods[method]; !ok {
		return fmt.Errorf("%q: %w", route.Method, ErrUnsupportedMethod)
	}

	key := method + " " + route.Path
	if owner, ok := p.bound[key]; ok {
		return fmt.Errorf("%s bound by module %q: %w", key, owner, ErrDuplicateRoute)
	}

	invoke, err := lookupHandler(m.Metadata().Type, route.Handler)
	if err != nil {
		return err
	}

	middlewares, err := p.middlewareModulesForRoute(route, bindings)
	if err != nil {
		return err
	}

	var handler http.HandlerFunc
	if m.Metadata().Singleton() {
		handler, err = p.singletonRouteHandler(m, invoke)
		if err != nil {
			return err
		}
	} else {
		handler = p.factoryRouteHandler(m, invoke)
	}

	var r chi.Router = p.app
	if len(middlewares) > 0 {
		r = p.app.With(p.routeMiddleware(middlewares))
	}
	r.Method(method, route.Path, handler)
	p.bound[key] = m.Metadata().Name

	p.logger.Debugw("route_bound",
		"module", m.Metadata().Name,
		"method", method,
		"path", route.Path,
		"handler", route.Handler,
		"middlewares", len(middlewares),
		"singleton", m.Metadata().Singleton(),
	)
	return nil
}

// middlewareModulesForRoute keeps the declared order of the bindings whose
// handler equals the route's handler. Unknown middleware names are skipped.
func (p *ChiPlugin) middlewareModulesForRoute(route metadata.Route, bindings []metadata.MiddlewareBinding) ([]*container.Module, error) {
	var modules []*container.Module
	for _, b := range bindings {
		if b.Handler != route.Handler {
			continue
		}

		mod, ok := p.container.ModuleDefinition(b.Middleware)
		if !ok {
			p.logger.Debugw("route_middleware_not_found", "handler", route.Handler, "middleware", b.Middleware)
			continue
		}
		if t := mod.Metadata().Type; t != nil && !t.Implements(middlewareType) {
			return nil, fmt.Errorf("middleware %q (%s): %w", b.Middleware, t, ErrNotMiddleware)
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

func (p *ChiPlugin) singletonRouteHandler(m *container.Module, invoke handlerFunc) (http.HandlerFunc, error) {
	ctrl := m.Instance()
	if ctrl == nil {
		return nil, fmt.Errorf("module %q: %w", m.Metadata().Name, container.ErrNotCreated)
	}
	if err := checkControllerType(m, ctrl); err != nil {
		return nil, err
	}

	return func(w http.ResponseWriter, r *http.Request) {
		invoke(ctrl, w, withLocals(r))
	}, nil
}

func (p *ChiPlugin) factoryRouteHandler(m *container.Module, invoke handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r = withLocals(r)
		ctrl, err := m.Resolve(r.Context())
		if err == nil {
			err = checkControllerType(m, ctrl)
		}
		if err != nil {
			p.errorHandler(w, r, err)
			return
		}
		invoke(ctrl, w, r)
	}
}

func checkControllerType(m *container.Module, ctrl any) error {
	want := m.Metadata().Type
	got := reflect.TypeOf(ctrl)
	if got == nil || !got.AssignableTo(want) {
		return fmt.Errorf("module %q: got %v, want %s: %w", m.Metadata().Name, got, want, ErrControllerType)
	}
	return nil
}
