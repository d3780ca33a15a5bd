// Package api assembles the API modules with all domain systems and route
// registration.
package api

import (
	"net/http"

	"github.com/nwillis/paralegal/internal/config"
	"github.com/nwillis/paralegal/internal/infrastructure"
	"github.com/nwillis/paralegal/pkg/middleware"
	"github.com/nwillis/paralegal/pkg/module"
	"github.com/nwillis/paralegal/pkg/routes"
)

// NewModules creates the document, search, and upload modules with their
// domain handlers and middleware.
func NewModules(cfg *config.Config, infra *infrastructure.Infrastructure) ([]*module.Module, error) {
	runtime := NewRuntime(cfg, infra)
	domain := NewDomain(runtime)

	docs := domain.Documents.Handler()
	upload := domain.Intake.Handler(runtime.MaxUploadSize)

	modules := []*module.Module{
		newModule("/documents", docs.Routes(), cfg, runtime),
		newModule("/search", docs.SearchRoutes(), cfg, runtime),
		newModule("/upload", upload.Routes(), cfg, runtime),
	}

	return modules, nil
}

func newModule(prefix string, group routes.Group, cfg *config.Config, runtime *Runtime) *module.Module {
	mux := http.NewServeMux()
	routes.Register(mux, group)

	m := module.New(prefix, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m
}
