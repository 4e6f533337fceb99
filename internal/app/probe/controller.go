// Package probe is a diagnostic controller created per request. Each
// response carries the ID of the controller instance that served it.
package probe

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"routeplug/internal/metadata"
	"routeplug/internal/pkg/render"
)

type Controller struct {
	instanceID string
	createdAt  time.Time
}

func NewController() *Controller {
	return &Controller{
		instanceID: uuid.NewString(),
		createdAt:  time.Now().UTC(),
	}
}

func Annotate(reg *metadata.Registry) {
	metadata.For[Controller](reg).Get("/v1/probe", "Get")
}

type response struct {
	InstanceID string `json:"instance_id"`
	RequestID  string `json:"request_id,omitempty"`
	CreatedAt  string `json:"created_at"`
}

func (c *Controller) Get(w http.ResponseWriter, r *http.Request) {
	render.ChiJSON(w, http.StatusOK, response{
		InstanceID: c.instanceID,
		RequestID:  middleware.GetReqID(r.Context()),
		CreatedAt:  c.createdAt.Format(time.RFC3339Nano),
	})
}
