package metadata

import (
	"net/http"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type itemsController struct{}

type plain struct{}

func TestFor_RecordsRoutesAndMiddlewares(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	For[itemsController](reg).
		Get("/items", "List").
		Post("/items", "Create").
		Use("Create", "auth", "ratelimit")

	require.True(t, reg.HasMetadata(reflect.TypeFor[itemsController]()))
	require.True(t, reg.HasMetadata(reflect.TypeFor[*itemsController]()))
	require.False(t, reg.HasMetadata(reflect.TypeFor[plain]()))
	require.False(t, reg.HasMetadata(nil))

	md := reg.Metadata(reflect.TypeFor[*itemsController]())
	require.Equal(t, []Route{
		{Method: http.MethodGet, Path: "/items", Handler: "List"},
		{Method: http.MethodPost, Path: "/items", Handler: "Create"},
	}, md.Routes)
	require.Equal(t, []MiddlewareBinding{
		{Handler: "Create", Middleware: "auth"},
		{Handler: "Create", Middleware: "ratelimit"},
	}, md.Middlewares)
}

func TestFor_MarksControllerWithoutRoutes(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	For[plain](reg)

	require.True(t, reg.HasMetadata(reflect.TypeFor[plain]()))
	require.Empty(t, reg.Metadata(reflect.TypeFor[plain]()).Routes)
}

func TestMetadata_ReturnsCopy(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	For[itemsController](reg).Get("/items", "List")

	md := reg.Metadata(reflect.TypeFor[itemsController]())
	md.Routes[0].Handler = "Mutated"

	require.Equal(t, "List", reg.Metadata(reflect.TypeFor[itemsController]()).Routes[0].Handler)
}
