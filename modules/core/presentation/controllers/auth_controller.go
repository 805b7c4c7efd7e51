package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/composables"
	"github.com/plantops/plantops/pkg/httpapi"
	"github.com/plantops/plantops/pkg/middleware"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Message string `json:"message"`
	*services.AuthResult
}

// signupRequired tells the client to offer registration instead.
type signupRequired struct {
	httpapi.ErrorEnvelope
	RequiresSignup bool `json:"requiresSignup"`
}

type AuthController struct {
	auth            *services.AuthService
	requestIDHeader string
	basePath        string
}

func NewAuthController(app application.Application, requestIDHeader string) application.Controller {
	return &AuthController{
		auth:            app.Service(services.AuthService{}).(*services.AuthService),
		requestIDHeader: requestIDHeader,
		basePath:        "/api/auth",
	}
}

func (c *AuthController) Key() string {
	return c.basePath
}

func (c *AuthController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.HandleFunc("/register", c.SignUp).Methods(http.MethodPost)
	router.HandleFunc("/login", c.Login).Methods(http.MethodPost)

	me := router.PathPrefix("/me").Subrouter()
	me.Use(middleware.Authorize(c.auth, true))
	me.HandleFunc("", c.Me).Methods(http.MethodGet)
}

func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		c.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	res, err := c.auth.Register(r.Context(), services.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		c.writeAuthError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusCreated, &authResponse{Message: "User registered successfully", AuthResult: res})
}

func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		c.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}
	res, err := c.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		c.writeAuthError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, &authResponse{Message: "Login successful", AuthResult: res})
}

func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	u, err := c.auth.Me(r.Context())
	if err != nil {
		c.writeAuthError(w, r, err)
		return
	}
	_ = httpapi.WriteJSON(w, http.StatusOK, map[string]any{"user": u})
}

func (c *AuthController) writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		c.writeError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, services.ErrUserExists):
		c.writeError(w, r, http.StatusBadRequest, "USER_EXISTS", "User already exists")
	case errors.Is(err, services.ErrUserNotFound):
		_ = httpapi.WriteJSON(w, http.StatusNotFound, &signupRequired{
			ErrorEnvelope: httpapi.ErrorEnvelope{
				Code:    "NOT_FOUND",
				Message: "User not found",
				Meta:    httpapi.RequestMeta(w, r, c.requestIDHeader),
			},
			RequiresSignup: true,
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.writeError(w, r, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials")
	case errors.Is(err, services.ErrInvalidToken):
		c.writeError(w, r, http.StatusForbidden, "FORBIDDEN", "Invalid token")
	default:
		composables.UseLogger(r.Context()).WithError(err).Error("auth request failed")
		c.writeError(w, r, http.StatusInternalServerError, "INTERNAL", "Server error")
	}
}

func (c *AuthController) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	_ = httpapi.WriteError(w, status, code, message, httpapi.RequestMeta(w, r, c.requestIDHeader))
}
