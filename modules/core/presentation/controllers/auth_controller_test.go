package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantops/modules/core/presentation/controllers"
	"github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/modules/core/testhelpers"
	"github.com/plantops/plantops/pkg/application"
)

func newAuthRouter(t *testing.T) *mux.Router {
	t.Helper()
	app := application.New(&application.ApplicationOptions{})
	app.RegisterServices(services.NewAuthService(testhelpers.NewUserRepository(), services.AuthOptions{Secret: "test", TTL: time.Hour}))

	r := mux.NewRouter()
	controllers.NewAuthController(app, "X-Request-ID").Register(r)
	r.NotFoundHandler = controllers.NotFound("X-Request-ID")
	r.MethodNotAllowedHandler = controllers.MethodNotAllowed("X-Request-ID")
	return r
}

func do(t *testing.T, h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var out map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	}
	return rec, out
}

func TestAuthController_RegisterLoginMe(t *testing.T) {
	r := newAuthRouter(t)

	rec, body := do(t, r, http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "User registered successfully", body["message"])
	require.NotEmpty(t, body["token"])
	u := body["user"].(map[string]any)
	require.Equal(t, "ada@example.com", u["email"])
	require.NotContains(t, u, "password")

	rec, body = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Login successful", body["message"])
	token := body["token"].(string)

	rec, body = do(t, r, http.MethodGet, "/api/auth/me", "", token)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "Ada", body["user"].(map[string]any)["name"])
}

func TestAuthController_Errors(t *testing.T) {
	r := newAuthRouter(t)

	rec, body := do(t, r, http.MethodPost, "/api/auth/register", `{"name":"Ada"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "VALIDATION_ERROR", body["code"])

	rec, _ = do(t, r, http.MethodPost, "/api/auth/register", `{`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, r, http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, body = do(t, r, http.MethodPost, "/api/auth/register", `{"name":"Ada","email":"ada@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "User already exists", body["message"])

	rec, body = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"pw"}`, "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, true, body["requiresSignup"])

	rec, body = do(t, r, http.MethodPost, "/api/auth/login", `{"email":"ada@example.com","password":"nope"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, "Invalid credentials", body["message"])

	rec, _ = do(t, r, http.MethodGet, "/api/auth/me", "", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, r, http.MethodGet, "/api/auth/me", "", "not-a-jwt")
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestErrorHandlers(t *testing.T) {
	r := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.JSONEq(t, `{"code":"NOT_FOUND","message":"not found","meta":{"path":"/api/unknown","request_id":"req-1"}}`, rec.Body.String())

	rec, body := do(t, r, http.MethodDelete, "/api/auth/login", "", "")
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	require.Equal(t, "METHOD_NOT_ALLOWED", body["code"])
}

func TestHealthController_WithoutDatabase(t *testing.T) {
	app := application.New(&application.ApplicationOptions{})
	r := mux.NewRouter()
	controllers.NewHealthController(app).Register(r)

	rec, body := do(t, r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.Equal(t, "degraded", body["status"])
}
