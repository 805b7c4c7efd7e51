package controllers

import (
	"net/http"

	"github.com/plantops/plantops/pkg/httpapi"
)

// NotFound answers unmatched routes with the JSON error envelope.
func NotFound(requestIDHeader string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := map[string]string{"path": r.URL.Path}
		for k, v := range httpapi.RequestMeta(w, r, requestIDHeader) {
			meta[k] = v
		}
		_ = httpapi.WriteError(w, http.StatusNotFound, "NOT_FOUND", "not found", meta)
	}
}

func MethodNotAllowed(requestIDHeader string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		meta := map[string]string{
			"method": r.Method,
			"path":   r.URL.Path,
		}
		for k, v := range httpapi.RequestMeta(w, r, requestIDHeader) {
			meta[k] = v
		}
		_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", meta)
	}
}
