package chiplugin

import (
	"fmt"
	"net/http"
	"reflect"
)

var (
	responseWriterType = reflect.TypeFor[http.ResponseWriter]()
	requestType        = reflect.TypeFor[*http.Request]()
	middlewareType     = reflect.TypeFor[Middleware]()
)

// handlerFunc calls one named controller method on ctrl.
type handlerFunc func(ctrl any, w http.ResponseWriter, r *http.Request)

// lookupHandler finds method name on controller type t. The method must have
// the signature func(http.ResponseWriter, *http.Request).
func lookupHandler(t reflect.Type, name string) (handlerFunc, error) {
	if t == nil {
		return nil, fmt.Errorf("%s: module has no type: %w", name, ErrHandlerNotFound)
	}

	m, ok := t.MethodByName(name)
	if !ok {
		return nil, fmt.Errorf("%s.%s: %w", t, name, ErrHandlerNotFound)
	}

	// Interface method types carry no receiver.
	in := 1
	if t.Kind() == reflect.Interface {
		in = 0
	}
	mt := m.Type
	if mt.NumIn() != in+2 || mt.In(in) != responseWriterType || mt.In(in+1) != requestType || mt.NumOut() != 0 {
		return nil, fmt.Errorf("%s.%s has signature %s, want func(http.ResponseWriter, *http.Request): %w",
			t, name, mt, ErrHandlerNotFound)
	}

	if t.Kind() == reflect.Interface {
		idx := m.Index
		return func(ctrl any, w http.ResponseWriter, r *http.Request) {
			reflect.ValueOf(ctrl).Convert(t).Method(idx).Call([]reflect.Value{
				reflect.ValueOf(w), reflect.ValueOf(r),
			})
		}, nil
	}

	fn := m.Func
	return func(ctrl any, w http.ResponseWriter, r *http.Request) {
		fn.Call([]reflect.Value{reflect.ValueOf(ctrl), reflect.ValueOf(w), reflect.ValueOf(r)})
	}, nil
}
