// Package infrastructure provides core service initialization for application startup.
// It assembles common dependencies (logging, database, storage, inference) that
// domain systems require.
package infrastructure

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nwillis/paralegal/internal/config"
	"github.com/nwillis/paralegal/pkg/database"
	"github.com/nwillis/paralegal/pkg/inference"
	"github.com/nwillis/paralegal/pkg/lifecycle"
	"github.com/nwillis/paralegal/pkg/storage"
)

// Infrastructure holds the core systems required by all domain modules.
// It provides a single point of initialization for lifecycle coordination,
// logging, database access, file storage, and the inference service client.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Inference inference.System
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	inf, err := inference.New(&cfg.Inference, logger)
	if err != nil {
		return nil, fmt.Errorf("inference init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		Inference: inf,
	}, nil
}

// Start registers all infrastructure systems with the lifecycle coordinator.
// The inference system probes its service health synchronously, so an
// unreachable inference service fails startup here.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if err := i.Storage.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("storage start failed: %w", err)
	}
	if err := i.Inference.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("inference start failed: %w", err)
	}
	return nil
}
