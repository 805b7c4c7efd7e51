package middleware

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/httpapi"
)

// TokenVerifier resolves a bearer token to the caller it was issued for.
type TokenVerifier interface {
	Verify(token string) (*composables.Principal, error)
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// Authorize attaches the token's principal to the request context. With
// required set, a missing token is 401 and an invalid one 403; otherwise
// requests pass through and only a valid token is attached.
func Authorize(verifier TokenVerifier, required bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				if required {
					_ = httpapi.WriteError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Access token required", httpapi.RequestMeta(w, r, "X-Request-ID"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				if required {
					composables.UseLogger(r.Context()).WithError(err).Debug("rejected bearer token")
					_ = httpapi.WriteError(w, http.StatusForbidden, "FORBIDDEN", "Invalid token", httpapi.RequestMeta(w, r, "X-Request-ID"))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			if params, ok := composables.UseParams(r.Context()); ok {
				params.Authenticated = true
			}
			next.ServeHTTP(w, r.WithContext(composables.WithPrincipal(r.Context(), principal)))
		})
	}
}
