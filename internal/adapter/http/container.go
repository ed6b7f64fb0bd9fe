package http

import (
	"context"
	"fmt"

	"todoapi/internal/adapter/database/postgres"
	pgrepository "todoapi/internal/adapter/database/postgres/repository"
	"todoapi/internal/adapter/database/sqlite"
	sqliterepository "todoapi/internal/adapter/database/sqlite/repository"
	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/core/port"
	"todoapi/internal/core/service"
	"todoapi/pkg/config"
	"todoapi/pkg/logger"
)

type Container struct {
	TodoRepo    port.TodoRepository
	TodoService port.TodoService
	TodoHandler *handler.TodoHandler

	closeStore func()
}

// NewContainer opens the store selected by cfg.Database.Driver and wires the
// todo repository, service and handler on top of it.
func NewContainer(ctx context.Context, cfg *config.AppConfig, probe port.Telemetry, log *logger.LokiLogger) (*Container, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.NewDB(ctx, cfg.Database)

		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}

		container := NewContainerWithRepository(pgrepository.NewTodoRepository(db, probe), probe, log)
		container.closeStore = db.Close

		return container, nil

	case config.DriverSQLite:
		db, err := sqlite.NewDB(cfg.Database)

		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}

		container := NewContainerWithRepository(sqliterepository.NewTodoRepository(db, probe), probe, log)
		container.closeStore = func() { db.Close() }

		return container, nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func NewContainerWithRepository(todoRepo port.TodoRepository, probe port.Telemetry, log *logger.LokiLogger) *Container {
	todoSvc := service.NewTodoService(todoRepo, probe)

	return &Container{
		TodoRepo:    todoRepo,
		TodoService: todoSvc,
		TodoHandler: handler.NewTodoHandler(todoSvc, log),
	}
}

func (c *Container) Close() {
	if c.closeStore != nil {
		c.closeStore()
	}
}
