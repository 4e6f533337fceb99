package container

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"go.uber.org/zap"
)

var (
	ErrEmptyName           = errors.New("module name is empty")
	ErrNilConstructor      = errors.New("module constructor is nil")
	ErrDuplicateModule     = errors.New("module already registered")
	ErrModuleNotFound      = errors.New("module not found")
	ErrNotCreated          = errors.New("module not created")
	ErrAlreadyBootstrapped = errors.New("container already bootstrapped")
)

// Plugin extends a container before its modules are created, usually by
// tapping Hooks.
type Plugin interface {
	Apply(ctx context.Context, c *Container) error
}

type Option func(*Container)

func WithPlugin(p Plugin) Option {
	return func(c *Container) { c.plugins = append(c.plugins, p) }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(c *Container) {
		if l != nil {
			c.logger = l
		}
	}
}

// Container holds module definitions and creates them on Bootstrap.
type Container struct {
	hooks   Hooks
	modules *xsync.MapOf[string, *Module]
	plugins []Plugin
	logger  *zap.SugaredLogger

	mu           sync.Mutex
	order        []*Module
	bootstrapped bool

	objectsMu sync.RWMutex
	objects   map[any]any
}

func New(opts ...Option) *Container {
	c := &Container{
		modules: xsync.NewMapOf[string, *Module](),
		objects: make(map[any]any),
		logger:  zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Container) Hooks() *Hooks { return &c.hooks }

// Register adds a module definition. Modules are created in registration order.
func (c *Container) Register(name string, typ reflect.Type, lifetime Lifetime, ctor Constructor) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	if ctor == nil {
		return fmt.Errorf("module %q: %w", name, ErrNilConstructor)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bootstrapped {
		return fmt.Errorf("register %q: %w", name, ErrAlreadyBootstrapped)
	}

	m := &Module{
		meta: Metadata{Name: name, Type: typ, Lifetime: lifetime},
		ctor: ctor,
	}
	if _, loaded := c.modules.LoadOrStore(name, m); loaded {
		return fmt.Errorf("module %q: %w", name, ErrDuplicateModule)
	}
	c.order = append(c.order, m)
	return nil
}

// Provide registers a typed constructor under name. The module type is T.
func Provide[T any](c *Container, name string, lifetime Lifetime, ctor func(ctx context.Context, c *Container) (T, error)) error {
	if ctor == nil {
		return c.Register(name, reflect.TypeFor[T](), lifetime, nil)
	}
	return c.Register(name, reflect.TypeFor[T](), lifetime, func(ctx context.Context, c *Container) (any, error) {
		return ctor(ctx, c)
	})
}

// ModuleDefinition looks up a registered module by name.
func (c *Container) ModuleDefinition(name string) (*Module, bool) {
	return c.modules.Load(name)
}

// Get resolves a module instance by name.
func (c *Container) Get(ctx context.Context, name string) (any, error) {
	m, ok := c.modules.Load(name)
	if !ok {
		return nil, fmt.Errorf("module %q: %w", name, ErrModuleNotFound)
	}
	return m.Resolve(ctx)
}

// Get resolves a module by name and asserts it to T.
func Get[T any](ctx context.Context, c *Container, name string) (T, error) {
	var zero T
	v, err := c.Get(ctx, name)
	if err != nil {
		return zero, err
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("module %q is %T, not %s", name, v, reflect.TypeFor[T]())
	}
	return t, nil
}

// AddObject puts a ready-made value into the container under key.
func (c *Container) AddObject(obj any, key any) {
	c.objectsMu.Lock()
	defer c.objectsMu.Unlock()
	c.objects[key] = obj
}

func (c *Container) Object(key any) (any, bool) {
	c.objectsMu.RLock()
	defer c.objectsMu.RUnlock()
	obj, ok := c.objects[key]
	return obj, ok
}

// Bootstrap applies plugins, then creates every module in registration order,
// firing AfterModuleCreation after each one.
func (c *Container) Bootstrap(ctx context.Context) error {
	c.mu.Lock()
	if c.bootstrapped {
		c.mu.Unlock()
		return ErrAlreadyBootstrapped
	}
	c.bootstrapped = true
	order := c.order
	c.mu.Unlock()

	for _, p := range c.plugins {
		if err := p.Apply(ctx, c); err != nil {
			return fmt.Errorf("apply plugin %T: %w", p, err)
		}
	}

	for _, m := range order {
		if err := c.create(ctx, m); err != nil {
			return err
		}
		if err := c.hooks.AfterModuleCreation.Call(m); err != nil {
			return fmt.Errorf("after creation of module %q: %w", m.meta.Name, err)
		}
		c.logger.Debugw("module_created", "module", m.meta.Name, "lifetime", m.meta.Lifetime.String())
	}

	c.logger.Infow("container_bootstrapped", "modules", len(order), "plugins", len(c.plugins))
	return nil
}

func (c *Container) create(ctx context.Context, m *Module) error {
	if !m.meta.Singleton() {
		ctor := m.ctor
		m.factory = func(ctx context.Context) (any, error) {
			return ctor(ctx, c)
		}
		return nil
	}

	inst, err := m.ctor(ctx, c)
	if err != nil {
		return fmt.Errorf("create module %q: %w", m.meta.Name, err)
	}
	if inst == nil {
		return fmt.Errorf("create module %q: constructor returned nil", m.meta.Name)
	}
	m.instance = inst
	return nil
}
