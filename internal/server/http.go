package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	"routeplug/config"
	"routeplug/internal/container"
)

type NewHTTPServerParams struct {
	fx.In

	Cfg config.Config
	Mux *chi.Mux
	// Controller routes are bound when the container bootstraps; depending on
	// it orders its start hook ahead of the server's.
	Container *container.Container
}

func NewHTTPServer(p NewHTTPServerParams) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", p.Cfg.AppPort),
		Handler:           p.Mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
