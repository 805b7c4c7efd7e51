package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/httpapi"
)

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type HealthController struct {
	pool *pgxpool.Pool
}

func NewHealthController(app application.Application) application.Controller {
	return &HealthController{pool: app.DB()}
}

func (c *HealthController) Key() string {
	return "/health"
}

func (c *HealthController) Register(r *mux.Router) {
	r.HandleFunc("/health", c.Get).Methods(http.MethodGet)
}

func (c *HealthController) Get(w http.ResponseWriter, r *http.Request) {
	if c.pool == nil {
		_ = httpapi.WriteJSON(w, http.StatusServiceUnavailable, &healthResponse{Status: "degraded", Database: "not configured"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := c.pool.Ping(ctx); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("health check failed")
		_ = httpapi.WriteJSON(w, http.StatusServiceUnavailable, &healthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &healthResponse{Status: "ok", Database: "ok"})
}
