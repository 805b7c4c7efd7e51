package masterdata

import (
	"github.com/gorilla/mux"

	coreservices "github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/modules/masterdata/handlers"
	"github.com/plantops/plantops/modules/masterdata/infrastructure/persistence"
	"github.com/plantops/plantops/modules/masterdata/presentation/controllers"
	"github.com/plantops/plantops/modules/masterdata/services"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/middleware"
)

type ModuleOptions struct {
	// Verifier checks bearer tokens. Defaults to the core AuthService, so
	// the core module must be registered first unless one is given.
	Verifier        middleware.TokenVerifier
	AuthRequired    bool
	StrictIDLists   bool
	RequestIDHeader string
	// Registries and Tx replace the Postgres repositories, mostly in tests.
	Registries *services.Registries
	Tx         services.TxRunner
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		opts = &ModuleOptions{}
	}
	return &Module{
		options: opts,
	}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	reg := services.Registries{
		Plants:      persistence.NewPlantRepository(),
		Departments: persistence.NewDepartmentRepository(),
		WorkCenters: persistence.NewWorkCenterRepository(),
		CostCenters: persistence.NewCostCenterRepository(),
	}
	if m.options.Registries != nil {
		reg = *m.options.Registries
	}
	tx := m.options.Tx
	if tx == nil {
		tx = services.PoolTxRunner{}
	}

	bus := app.EventPublisher()
	app.RegisterServices(
		services.NewPlantService(reg, tx, bus),
		services.NewDepartmentService(reg, tx, bus),
		services.NewWorkCenterService(reg, tx, bus),
		services.NewCostCenterService(reg, tx, bus),
		services.NewExportService(reg),
	)
	handlers.RegisterChangeHandlers(bus, app.Logger())

	verifier := m.options.Verifier
	if verifier == nil {
		verifier = app.Service(coreservices.AuthService{}).(*coreservices.AuthService)
	}
	opts := controllers.Options{
		Middleware:      []mux.MiddlewareFunc{middleware.Authorize(verifier, m.options.AuthRequired)},
		StrictIDLists:   m.options.StrictIDLists,
		RequestIDHeader: m.options.RequestIDHeader,
	}
	app.RegisterControllers(
		controllers.NewPlantController(app, opts),
		controllers.NewDepartmentController(app, opts),
		controllers.NewWorkCenterController(app, opts),
		controllers.NewCostCenterController(app, opts),
	)
	return nil
}

func (m *Module) Name() string {
	return "masterdata"
}
