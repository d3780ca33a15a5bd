package main

import (
	"encoding/json"
	"net/http"

	"github.com/nwillis/paralegal/internal/api"
	"github.com/nwillis/paralegal/internal/config"
	"github.com/nwillis/paralegal/internal/infrastructure"
	"github.com/nwillis/paralegal/pkg/module"
)

type Modules struct {
	API []*module.Module
}

func NewModules(infra *infrastructure.Infrastructure, cfg *config.Config) (*Modules, error) {
	apiModules, err := api.NewModules(cfg, infra)
	if err != nil {
		return nil, err
	}

	return &Modules{API: apiModules}, nil
}

func (m *Modules) Mount(router *module.Router) {
	for _, mod := range m.API {
		router.Mount(mod)
	}
}

func buildRouter(infra *infrastructure.Infrastructure, cfg *config.Config) *module.Router {
	router := module.NewRouter()

	router.HandleNative("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{
			"message": "Legal Document Processing API",
			"version": cfg.Version,
		})
	})

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	return router
}
