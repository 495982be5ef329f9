package budget

import (
	"embed"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/infrastructure/persistence"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/presentation/controllers"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/budget/services"
	catalogpersistence "github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence"
	catalogservices "github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/budget-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

// Register wires the budget module. It depends on the catalog module's
// pricing service, so the catalog module must be registered first.
func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewBudgetService(
			persistence.NewBudgetItemRepository(),
			persistence.NewBDIRepository(),
			catalogpersistence.NewItemRepository(),
			app.Service(catalogservices.PricingService{}).(*catalogservices.PricingService),
			app.EventPublisher(),
			app.Logger(),
			conf.Pricing,
		),
	)
	app.RegisterControllers(
		controllers.NewBudgetController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "budget"
}
