// Package metadata keeps controller annotations: the routes a controller type
// serves and the middleware modules bound to its handlers.
//
// Annotations are keyed by Go type. A type and a pointer to it share the same
// entry, so a controller can be annotated as Foo and registered as *Foo.
package metadata

import (
	"reflect"
	"slices"
	"sync"
)

// Route maps an HTTP method and path to a controller method name.
type Route struct {
	Method  string
	Path    string
	Handler string
}

// MiddlewareBinding applies the middleware module named Middleware to the
// routes whose handler is Handler.
type MiddlewareBinding struct {
	Handler    string
	Middleware string
}

// Controller is the annotation set of one controller type.
type Controller struct {
	Routes      []Route
	Middlewares []MiddlewareBinding
}

type Registry struct {
	mu      sync.RWMutex
	entries map[reflect.Type]*Controller
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[reflect.Type]*Controller)}
}

// Annotate appends routes and middleware bindings to t's annotations.
func (r *Registry) Annotate(t reflect.Type, c Controller) {
	t = baseType(t)
	if t == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[t]
	if !ok {
		e = &Controller{}
		r.entries[t] = e
	}
	e.Routes = append(e.Routes, c.Routes...)
	e.Middlewares = append(e.Middlewares, c.Middlewares...)
}

// HasMetadata reports whether t was annotated as a controller.
func (r *Registry) HasMetadata(t reflect.Type) bool {
	t = baseType(t)
	if t == nil {
		return false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[t]
	return ok
}

// Metadata returns a copy of t's annotations.
func (r *Registry) Metadata(t reflect.Type) Controller {
	t = baseType(t)
	if t == nil {
		return Controller{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[t]
	if !ok {
		return Controller{}
	}
	return Controller{
		Routes:      slices.Clone(e.Routes),
		Middlewares: slices.Clone(e.Middlewares),
	}
}

func baseType(t reflect.Type) reflect.Type {
	if t != nil && t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	return t
}
