package modules_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"routeplug/config"
	"routeplug/db"
	"routeplug/internal/app/items"
	"routeplug/internal/app/modules"
	"routeplug/internal/chiplugin"
	"routeplug/internal/container"
	"routeplug/internal/metadata"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Open(db.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, db.Migrate(context.Background(), conn, "up"))
	return conn
}

func newTestApp(t *testing.T) (*chi.Mux, *container.Container) {
	t.Helper()

	reg := metadata.NewRegistry()
	modules.Annotate(reg)

	mux := chi.NewRouter()
	plugin, err := chiplugin.New(chiplugin.Options{App: mux, Extractor: reg})
	require.NoError(t, err)

	c := container.New(container.WithPlugin(plugin))
	require.NoError(t, modules.Register(c, modules.Deps{
		Cfg:    config.Config{AuthTokens: []string{"alice:s3cret"}},
		DB:     newTestDB(t),
		Logger: zap.NewNop().Sugar(),
	}))
	require.NoError(t, c.Bootstrap(context.Background()))
	return mux, c
}

func do(t *testing.T, h http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestItems_CreateRequiresAuth(t *testing.T) {
	t.Parallel()
	mux, _ := newTestApp(t)

	rec := do(t, mux, http.MethodPost, "/v1/items", `{"name":"lamp"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"missing bearer token"}`, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/v1/items", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[]}`, rec.Body.String())
}

func TestItems_Lifecycle(t *testing.T) {
	t.Parallel()
	mux, _ := newTestApp(t)

	rec := do(t, mux, http.MethodPost, "/v1/items", `{"name":" lamp ","description":"desk"}`, "s3cret")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created items.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)
	require.Equal(t, "lamp", created.Name)
	require.Equal(t, "alice", created.CreatedBy)

	rec = do(t, mux, http.MethodGet, "/v1/items/"+created.ID, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got items.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, created, got)

	rec = do(t, mux, http.MethodDelete, "/v1/items/"+created.ID, "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, mux, http.MethodDelete, "/v1/items/"+created.ID, "", "s3cret")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodGet, "/v1/items/"+created.ID, "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestItems_CreateValidates(t *testing.T) {
	t.Parallel()
	mux, _ := newTestApp(t)

	rec := do(t, mux, http.MethodPost, "/v1/items", `{"name":"   "}`, "s3cret")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"error":"name failed required"}`, rec.Body.String())

	rec = do(t, mux, http.MethodPost, "/v1/items", `{`, "s3cret")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestProbe_NewInstancePerRequest(t *testing.T) {
	t.Parallel()
	mux, _ := newTestApp(t)

	instance := func() string {
		rec := do(t, mux, http.MethodGet, "/v1/probe", "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			InstanceID string `json:"instance_id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.InstanceID)
		return body.InstanceID
	}

	require.NotEqual(t, instance(), instance())
}

func TestRegister_SingletonsSharedAcrossResolves(t *testing.T) {
	t.Parallel()
	_, c := newTestApp(t)
	ctx := context.Background()

	a, err := container.Get[*items.Controller](ctx, c, modules.ItemsController)
	require.NoError(t, err)
	b, err := container.Get[*items.Controller](ctx, c, modules.ItemsController)
	require.NoError(t, err)
	require.Same(t, a, b)

	mod, ok := c.ModuleDefinition(modules.RateLimit)
	require.True(t, ok)
	require.Equal(t, container.Factory, mod.Metadata().Lifetime)

	app, ok := chiplugin.App(c)
	require.True(t, ok)
	require.NotNil(t, app)
}

func TestRegister_DuplicateRegistrationFails(t *testing.T) {
	t.Parallel()

	c := container.New()
	require.NoError(t, modules.Register(c, modules.Deps{}))
	require.ErrorIs(t, modules.Register(c, modules.Deps{}), container.ErrDuplicateModule)
}
