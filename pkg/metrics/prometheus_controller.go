// Package metrics exposes the service's Prometheus collectors over HTTP.
package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/plantops/plantops/pkg/application"
)

const DefaultPath = "/metrics"

// PrometheusController serves the collectors of one gatherer, by default
// the global registry that the masterdata write and sync counters
// register with.
type PrometheusController struct {
	path     string
	gatherer prometheus.Gatherer
}

type Option func(*PrometheusController)

// WithGatherer scrapes g instead of prometheus.DefaultGatherer.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(c *PrometheusController) {
		c.gatherer = g
	}
}

func NewPrometheusController(path string, opts ...Option) application.Controller {
	if path == "" {
		path = DefaultPath
	}
	c := &PrometheusController{path: path, gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PrometheusController) Key() string {
	return c.path
}

// Register mounts a GET handler; a failing collector drops its own series
// instead of failing the whole scrape.
func (c *PrometheusController) Register(r *mux.Router) {
	handler := promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
	r.Handle(c.path, handler).Methods(http.MethodGet)
}
