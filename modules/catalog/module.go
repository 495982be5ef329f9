package catalog

import (
	"embed"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/infrastructure/persistence"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/presentation/controllers"
	"github.com/RabelloRS/app-orcamento-obras-publicas/modules/catalog/services"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/jobs"
)

//go:embed infrastructure/persistence/schema/catalog-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	conf := configuration.Use()

	sources := persistence.NewSourceRepository()
	items := persistence.NewItemRepository()
	prices := persistence.NewPriceRepository()
	compositions := persistence.NewCompositionRepository()

	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewImportService(
			sources, items, prices, compositions,
			app.EventPublisher(), app.Logger(), conf.Import, conf.Pricing.Currency,
		),
		services.NewPricingService(items, prices, compositions, conf.Pricing),
		services.NewCatalogService(items, sources),
	)

	tracker := jobs.NewTracker(jobStore(conf))
	app.RegisterControllers(
		controllers.NewImportController(app, tracker, conf.MaxUploadSize),
		controllers.NewCatalogController(app, conf.Pricing),
	)
	return nil
}

func (m *Module) Name() string {
	return "catalog"
}

// jobStore picks Redis when a URL is configured so job status survives
// restarts and is visible across instances.
func jobStore(conf *configuration.Configuration) jobs.Store {
	if conf.RedisURL == "" {
		return jobs.NewMemoryStore()
	}
	opts, err := redis.ParseURL(conf.RedisURL)
	if err != nil {
		return jobs.NewMemoryStore()
	}
	return jobs.NewRedisStore(redis.NewClient(opts), 24*time.Hour)
}
