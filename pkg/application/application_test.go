package application

import (
	"net/http"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

type stubController struct{ key string }

func (c *stubController) Register(r *mux.Router) {}
func (c *stubController) Key() string           { return c.key }

type plantService struct{ name string }

func TestApplication_Services(t *testing.T) {
	app := New(&ApplicationOptions{})
	svc := &plantService{name: "plants"}
	app.RegisterServices(svc)

	got := app.Service(plantService{}).(*plantService)
	require.Same(t, svc, got)
	require.Len(t, app.Services(), 1)

	require.Panics(t, func() { app.Service(stubController{}) })
}

func TestApplication_ControllersOrderedByKey(t *testing.T) {
	app := New(&ApplicationOptions{})
	app.RegisterControllers(&stubController{key: "/api/work-centers"}, &stubController{key: "/api/plants"})
	app.RegisterControllers(&stubController{key: "/api/plants"})

	controllers := app.Controllers()
	require.Len(t, controllers, 2)
	require.Equal(t, "/api/plants", controllers[0].Key())
	require.Equal(t, "/api/work-centers", controllers[1].Key())
}

func TestApplication_Defaults(t *testing.T) {
	app := New(&ApplicationOptions{})
	require.NotNil(t, app.Logger())
	require.NotNil(t, app.EventPublisher())
	require.Nil(t, app.DB())

	app.RegisterMiddleware(func(next http.Handler) http.Handler { return next })
	require.Len(t, app.Middleware(), 1)
}
