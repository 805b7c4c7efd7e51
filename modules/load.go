package modules

import (
	"github.com/plantops/plantops/modules/core"
	coreservices "github.com/plantops/plantops/modules/core/services"
	"github.com/plantops/plantops/modules/masterdata"
	"github.com/plantops/plantops/pkg/application"
	"github.com/plantops/plantops/pkg/configuration"
)

// BuiltInModules returns the service's modules in registration order. core
// goes first: masterdata verifies tokens with its AuthService.
func BuiltInModules(conf *configuration.Configuration) []application.Module {
	return []application.Module{
		core.NewModule(&core.ModuleOptions{
			Auth: coreservices.AuthOptions{
				Secret: conf.Auth.Secret,
				TTL:    conf.Auth.TokenTTL,
			},
			RequestIDHeader: conf.RequestIDHeader,
		}),
		masterdata.NewModule(&masterdata.ModuleOptions{
			AuthRequired:    conf.Auth.Required,
			StrictIDLists:   conf.StrictIDLists,
			RequestIDHeader: conf.RequestIDHeader,
		}),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
