package chiplugin

import (
	"context"
	"net/http"
	"sync"
)

type localsKey struct{}

// Values is a per-request bag middleware use to hand data to the handler.
type Values struct {
	mu sync.RWMutex
	m  map[string]any
}

func (v *Values) Set(key string, val any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.m == nil {
		v.m = make(map[string]any)
	}
	v.m[key] = val
}

func (v *Values) Get(key string) (any, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	val, ok := v.m[key]
	return val, ok
}

// Locals returns the request's values. Outside a bound route it returns an
// empty, detached bag.
func Locals(r *http.Request) *Values {
	if v, ok := r.Context().Value(localsKey{}).(*Values); ok {
		return v
	}
	return &Values{}
}

func withLocals(r *http.Request) *http.Request {
	if _, ok := r.Context().Value(localsKey{}).(*Values); ok {
		return r
	}
	return r.WithContext(context.WithValue(r.Context(), localsKey{}, &Values{}))
}
