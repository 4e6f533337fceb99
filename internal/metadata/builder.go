package metadata

import (
	"net/http"
	"reflect"
)

// Builder annotates the controller type T. Every call is written to the
// registry immediately.
type Builder[T any] struct {
	reg *Registry
	typ reflect.Type
}

// For starts annotating T in reg. Calling For alone marks T as a controller
// even before any route is added.
func For[T any](reg *Registry) *Builder[T] {
	b := &Builder[T]{reg: reg, typ: reflect.TypeFor[T]()}
	reg.Annotate(b.typ, Controller{})
	return b
}

func (b *Builder[T]) Route(method, path, handler string) *Builder[T] {
	b.reg.Annotate(b.typ, Controller{Routes: []Route{{Method: method, Path: path, Handler: handler}}})
	return b
}

func (b *Builder[T]) Get(path, handler string) *Builder[T] {
	return b.Route(http.MethodGet, path, handler)
}

func (b *Builder[T]) Post(path, handler string) *Builder[T] {
	return b.Route(http.MethodPost, path, handler)
}

func (b *Builder[T]) Put(path, handler string) *Builder[T] {
	return b.Route(http.MethodPut, path, handler)
}

func (b *Builder[T]) Patch(path, handler string) *Builder[T] {
	return b.Route(http.MethodPatch, path, handler)
}

func (b *Builder[T]) Delete(path, handler string) *Builder[T] {
	return b.Route(http.MethodDelete, path, handler)
}

func (b *Builder[T]) Head(path, handler string) *Builder[T] {
	return b.Route(http.MethodHead, path, handler)
}

func (b *Builder[T]) Options(path, handler string) *Builder[T] {
	return b.Route(http.MethodOptions, path, handler)
}

// Use binds middleware modules to handler, in the given order.
func (b *Builder[T]) Use(handler string, middlewares ...string) *Builder[T] {
	bindings := make([]MiddlewareBinding, 0, len(middlewares))
	for _, mw := range middlewares {
		bindings = append(bindings, MiddlewareBinding{Handler: handler, Middleware: mw})
	}
	b.reg.Annotate(b.typ, Controller{Middlewares: bindings})
	return b
}
