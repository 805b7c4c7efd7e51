package core

import (
	"github.com/plantops/plantops/modules/core/infrastructure/persistence"
	"github.com/plantops/plantops/modules/core/presentation/controllers"
	"github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/pkg/application"
)

type ModuleOptions struct {
	Auth            services.AuthOptions
	RequestIDHeader string
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	if opts.RequestIDHeader == "" {
		opts.RequestIDHeader = "X-Request-ID"
	}
	return &Module{
		options: opts,
	}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	userRepo := persistence.NewUserRepository()
	app.RegisterServices(
		services.NewAuthService(userRepo, m.options.Auth),
	)
	app.RegisterControllers(
		controllers.NewAuthController(app, m.options.RequestIDHeader),
		controllers.NewHealthController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "core"
}
