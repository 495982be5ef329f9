package server

import (
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/application"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/configuration"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/middleware"
	"github.com/RabelloRS/app-orcamento-obras-publicas/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	Pool          *pgxpool.Pool
}

// Default assembles the HTTP server with the standard middleware stack:
// request logging with panic recovery first, then pool injection so every
// handler can open transactions through composables.
func Default(options *DefaultOptions) *server.HTTPServer {
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
	}
	return server.NewHTTPServer(options.Application, middlewares...)
}
