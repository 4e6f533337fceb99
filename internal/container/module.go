package container

import (
	"context"
	"fmt"
	"reflect"
)

// FactoryFunc produces a fresh module instance. It may block, so it takes a context.
type FactoryFunc func(ctx context.Context) (any, error)

// Constructor builds a module. Constructors receive the container so they can
// look up objects and other modules that were registered before them.
type Constructor func(ctx context.Context, c *Container) (any, error)

// Metadata describes a registered module.
type Metadata struct {
	Name     string
	Type     reflect.Type
	Lifetime Lifetime
}

// Singleton reports whether the module shares one instance.
func (m Metadata) Singleton() bool { return m.Lifetime == Singleton }

// Module is the container's record of a registered module. It is owned by the
// container; other packages only read it.
type Module struct {
	meta     Metadata
	ctor     Constructor
	instance any
	factory  FactoryFunc
}

func (m *Module) Metadata() Metadata { return m.meta }

// Instance returns the live instance of a singleton module, or nil for
// factory modules and modules that were not created yet.
func (m *Module) Instance() any { return m.instance }

// Factory returns the factory of a factory module, or nil for singletons.
func (m *Module) Factory() FactoryFunc { return m.factory }

// Resolve returns the shared instance of a singleton module or a fresh
// instance of a factory module.
func (m *Module) Resolve(ctx context.Context) (any, error) {
	if m.meta.Singleton() {
		if m.instance == nil {
			return nil, fmt.Errorf("module %q: %w", m.meta.Name, ErrNotCreated)
		}
		return m.instance, nil
	}
	if m.factory == nil {
		return nil, fmt.Errorf("module %q: %w", m.meta.Name, ErrNotCreated)
	}
	return m.factory(ctx)
}
