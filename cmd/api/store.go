package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/hr-helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/hr-helpdesk/internal/config"
	"github.com/spec-kit/hr-helpdesk/internal/persistence"
	"github.com/spec-kit/hr-helpdesk/internal/repository"
)

// store is the opened database for the configured driver.
type store struct {
	users      repository.UserRepository
	tickets    repository.TicketRepository
	migrations persistence.MigrationTarget
	pinger     handlers.Pinger
	close      func()
}

func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*store, error) {
	if cfg.Driver == config.DriverPostgres {
		pg, err := persistence.NewPostgres(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		pool := pg.PoolHandle()
		return &store{
			users:      repository.NewUserRepository(pool),
			tickets:    repository.NewTicketRepository(pool),
			migrations: pg,
			pinger:     pg,
			close:      pg.Close,
		}, nil
	}

	lite, err := persistence.NewSQLite(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &store{
		users:      repository.NewSQLiteUserRepository(lite.DB),
		tickets:    repository.NewSQLiteTicketRepository(lite.DB),
		migrations: lite,
		pinger:     lite,
		close:      lite.Close,
	}, nil
}
