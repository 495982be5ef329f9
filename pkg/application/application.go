package application

import (
	"context"
	"embed"
	"io/fs"
	"reflect"
	"sort"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/eventbus"
)

// Controller is anything that can mount routes on the shared router.
type Controller interface {
	Key() string
	Register(r *mux.Router)
}

// Module wires a bounded context's services and controllers into the app.
type Module interface {
	Name() string
	Register(app Application) error
}

type Application interface {
	DB() *pgxpool.Pool
	Logger() *logrus.Logger
	EventPublisher() eventbus.EventBus
	Migrations() *MigrationManager

	RegisterServices(services ...interface{})
	Service(service interface{}) interface{}
	RegisterControllers(controllers ...Controller)
	Controllers() []Controller
}

type ApplicationOptions struct {
	Pool     *pgxpool.Pool
	EventBus eventbus.EventBus
	Logger   *logrus.Logger
}

func New(opts *ApplicationOptions) Application {
	return &application{
		pool:        opts.Pool,
		eventBus:    opts.EventBus,
		logger:      opts.Logger,
		services:    map[reflect.Type]interface{}{},
		controllers: map[string]Controller{},
		migrations:  &MigrationManager{},
	}
}

type application struct {
	pool        *pgxpool.Pool
	eventBus    eventbus.EventBus
	logger      *logrus.Logger
	services    map[reflect.Type]interface{}
	controllers map[string]Controller
	migrations  *MigrationManager
}

func (app *application) DB() *pgxpool.Pool {
	return app.pool
}

func (app *application) Logger() *logrus.Logger {
	return app.logger
}

func (app *application) EventPublisher() eventbus.EventBus {
	return app.eventBus
}

func (app *application) Migrations() *MigrationManager {
	return app.migrations
}

func (app *application) RegisterServices(services ...interface{}) {
	for _, svc := range services {
		t := reflect.TypeOf(svc).Elem()
		app.services[t] = svc
	}
}

func (app *application) Service(service interface{}) interface{} {
	t := reflect.TypeOf(service)
	svc, ok := app.services[t]
	if !ok {
		panic("service not found for type " + t.String())
	}
	return svc
}

func (app *application) RegisterControllers(controllers ...Controller) {
	for _, c := range controllers {
		app.controllers[c.Key()] = c
	}
}

func (app *application) Controllers() []Controller {
	out := make([]Controller, 0, len(app.controllers))
	for _, c := range app.controllers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}

// MigrationManager collects per-module embedded schema files and applies them
// in registration order. Schemas are written to be idempotent
// (CREATE TABLE IF NOT EXISTS), so re-running at boot is safe.
type MigrationManager struct {
	schemas []*embed.FS
}

func (m *MigrationManager) RegisterSchema(fsys *embed.FS) {
	m.schemas = append(m.schemas, fsys)
}

func (m *MigrationManager) Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, fsys := range m.schemas {
		err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			sql, readErr := fs.ReadFile(fsys, path)
			if readErr != nil {
				return readErr
			}
			_, execErr := pool.Exec(ctx, string(sql))
			return execErr
		})
		if err != nil {
			return err
		}
	}
	return nil
}
