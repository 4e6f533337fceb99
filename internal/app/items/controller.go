// Package items is the item catalogue: a singleton controller over a SQL store.
package items

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"routeplug/internal/app/auth"
	"routeplug/internal/metadata"
	"routeplug/internal/pkg/render"
)

type Controller struct {
	store  *Store
	logger *zap.SugaredLogger
}

func NewController(store *Store, logger *zap.SugaredLogger) *Controller {
	return &Controller{store: store, logger: logger}
}

// Annotate declares the controller's routes and middleware in reg.
func Annotate(reg *metadata.Registry, authModule, rateLimitModule string) {
	metadata.For[Controller](reg).
		Get("/v1/items", "List").
		Get("/v1/items/{id}", "Get").
		Post("/v1/items", "Create").
		Delete("/v1/items/{id}", "Delete").
		Use("Create", authModule, rateLimitModule).
		Use("Delete", authModule)
}

func (c *Controller) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	out, err := c.store.List(r.Context(), limit)
	if err != nil {
		c.logger.Errorw("items_list_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	render.ChiJSON(w, http.StatusOK, map[string]any{"items": out})
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))
	if id == "" {
		render.ChiErr(w, http.StatusBadRequest, "missing id")
		return
	}

	it, err := c.store.Get(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		render.ChiErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		c.logger.Errorw("items_get_failed", "id", id, "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "failed to fetch item")
		return
	}
	render.ChiJSON(w, http.StatusOK, it)
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		render.ChiErr(w, http.StatusBadRequest, "invalid json")
		return
	}
	in.CreatedBy = auth.Principal(r)

	it, err := c.store.Create(r.Context(), in)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		render.ChiErr(w, http.StatusBadRequest, validationMessage(verrs))
		return
	}
	if err != nil {
		c.logger.Errorw("items_create_failed", "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	c.logger.Infow("item_created", "id", it.ID, "created_by", it.CreatedBy)
	render.ChiJSON(w, http.StatusCreated, it)
}

func (c *Controller) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(chi.URLParam(r, "id"))

	err := c.store.Delete(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		render.ChiErr(w, http.StatusNotFound, "not found")
		return
	}
	if err != nil {
		c.logger.Errorw("items_delete_failed", "id", id, "err", err)
		render.ChiErr(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validationMessage(verrs validator.ValidationErrors) string {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, strings.ToLower(fe.Field())+" failed "+fe.Tag())
	}
	return strings.Join(parts, "; ")
}
