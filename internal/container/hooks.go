package container

import "sync"

// Hook is a list of callbacks fired in tap order.
type Hook[T any] struct {
	mu  sync.RWMutex
	fns []func(T) error
}

// Tap adds fn to the hook.
func (h *Hook[T]) Tap(fn func(T) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

// Call runs every callback with v and stops at the first error.
func (h *Hook[T]) Call(v T) error {
	h.mu.RLock()
	fns := h.fns
	h.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(v); err != nil {
			return err
		}
	}
	return nil
}

// Hooks are the extension points a Plugin can tap.
type Hooks struct {
	AfterModuleCreation Hook[*Module]
}
