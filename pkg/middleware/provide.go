package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/constants"
)

// Provide stores value under key in every request context.
func Provide(key constants.ContextKey, value any) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequestParams exposes client details to services through composables.UseParams.
func RequestParams(realIPHeader string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := r.RemoteAddr
			if realIPHeader != "" {
				if v := r.Header.Get(realIPHeader); v != "" {
					ip = v
				}
			}
			params := &composables.Params{
				IP:        ip,
				UserAgent: r.UserAgent(),
				Request:   r,
				Writer:    w,
			}
			next.ServeHTTP(w, r.WithContext(composables.WithParams(r.Context(), params)))
		})
	}
}
