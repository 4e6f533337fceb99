package container

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type counter struct{ n int }

func TestBootstrap_SingletonCreatedOnce(t *testing.T) {
	t.Parallel()

	calls := 0
	c := New()
	require.NoError(t, Provide(c, "counter", Singleton, func(ctx context.Context, c *Container) (*counter, error) {
		calls++
		return &counter{n: calls}, nil
	}))
	require.NoError(t, c.Bootstrap(context.Background()))

	a, err := Get[*counter](context.Background(), c, "counter")
	require.NoError(t, err)
	b, err := Get[*counter](context.Background(), c, "counter")
	require.NoError(t, err)

	require.Same(t, a, b)
	require.Equal(t, 1, calls)
}

func TestBootstrap_FactoryCreatesPerResolve(t *testing.T) {
	t.Parallel()

	calls := 0
	c := New()
	require.NoError(t, Provide(c, "counter", Factory, func(ctx context.Context, c *Container) (*counter, error) {
		calls++
		return &counter{n: calls}, nil
	}))
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, 0, calls)

	m, ok := c.ModuleDefinition("counter")
	require.True(t, ok)
	require.Nil(t, m.Instance())
	require.NotNil(t, m.Factory())

	a, err := m.Resolve(context.Background())
	require.NoError(t, err)
	b, err := m.Resolve(context.Background())
	require.NoError(t, err)

	require.NotSame(t, a, b)
	require.Equal(t, 2, calls)
}

func TestBootstrap_HookFiresInRegistrationOrder(t *testing.T) {
	t.Parallel()

	c := New()
	var seen []string
	c.Hooks().AfterModuleCreation.Tap(func(m *Module) error {
		seen = append(seen, m.Metadata().Name)
		return nil
	})

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, Provide(c, name, Singleton, func(ctx context.Context, c *Container) (*counter, error) {
			return &counter{}, nil
		}))
	}
	require.NoError(t, c.Bootstrap(context.Background()))
	require.Equal(t, []string{"a", "b", "c"}, seen)
}

func TestBootstrap_HookErrorAborts(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	c := New()
	c.Hooks().AfterModuleCreation.Tap(func(m *Module) error { return boom })
	require.NoError(t, Provide(c, "a", Singleton, func(ctx context.Context, c *Container) (*counter, error) {
		return &counter{}, nil
	}))

	err := c.Bootstrap(context.Background())
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, c.Bootstrap(context.Background()), ErrAlreadyBootstrapped)
}

type tapPlugin struct{ applied bool }

func (p *tapPlugin) Apply(ctx context.Context, c *Container) error {
	p.applied = true
	c.AddObject("value", pluginKey{})
	return nil
}

type pluginKey struct{}

func TestBootstrap_AppliesPluginsAndObjects(t *testing.T) {
	t.Parallel()

	p := &tapPlugin{}
	c := New(WithPlugin(p))
	require.NoError(t, c.Bootstrap(context.Background()))
	require.True(t, p.applied)

	v, ok := c.Object(pluginKey{})
	require.True(t, ok)
	require.Equal(t, "value", v)

	_, ok = c.Object("pluginKey")
	require.False(t, ok)
}

func TestRegister_Errors(t *testing.T) {
	t.Parallel()

	c := New()
	ctor := func(ctx context.Context, c *Container) (*counter, error) { return &counter{}, nil }

	require.ErrorIs(t, Provide(c, " ", Singleton, ctor), ErrEmptyName)
	require.ErrorIs(t, Provide[*counter](c, "nil", Singleton, nil), ErrNilConstructor)
	require.NoError(t, Provide(c, "x", Singleton, ctor))
	require.ErrorIs(t, Provide(c, "x", Factory, ctor), ErrDuplicateModule)

	_, err := c.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrModuleNotFound)

	_, err = c.Get(context.Background(), "x")
	require.ErrorIs(t, err, ErrNotCreated)
}

func TestGet_WrongType(t *testing.T) {
	t.Parallel()

	c := New()
	require.NoError(t, Provide(c, "x", Singleton, func(ctx context.Context, c *Container) (*counter, error) {
		return &counter{}, nil
	}))
	require.NoError(t, c.Bootstrap(context.Background()))

	_, err := Get[string](context.Background(), c, "x")
	require.Error(t, err)
}
