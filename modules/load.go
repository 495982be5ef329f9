package modules

import (
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
)

// BuiltInModules in registration order: budget consumes catalog services.
var BuiltInModules = []application.Module{
	catalog.NewModule(),
	budget.NewModule(),
}

func Load(app application.Application, mods ...application.Module) error {
	for _, module := range mods {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
