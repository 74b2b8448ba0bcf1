package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/repository/mongorepo"
)

// Store bundles the repositories of the configured backend.
type Store struct {
	Driver     string
	Users      repository.UserRepository
	Complaints repository.ComplaintRepository
	Reports    repository.ReportRepository

	postgres *Postgres
	mongo    *Mongo
}

// OpenStore connects to the backend selected by cfg.Store.Driver and prepares its schema.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		m, err := NewMongo(ctx, cfg.Mongo, logger)
		if err != nil {
			return nil, fmt.Errorf("connect mongodb: %w", err)
		}
		if err := mongorepo.EnsureIndexes(ctx, m.Database); err != nil {
			m.Close(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return &Store{
			Driver:     config.StoreDriverMongo,
			Users:      mongorepo.NewUserRepository(m.Database),
			Complaints: mongorepo.NewComplaintRepository(m.Database),
			Reports:    mongorepo.NewReportRepository(m.Database),
			mongo:      m,
		}, nil
	default:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if cfg.Postgres.RunMigrations {
			if err := RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		pool := pg.PoolHandle()
		return &Store{
			Driver:     config.StoreDriverPostgres,
			Users:      repository.NewUserRepository(pool),
			Complaints: repository.NewComplaintRepository(pool),
			Reports:    repository.NewReportRepository(pool),
			postgres:   pg,
		}, nil
	}
}

// Ping checks the backend connection.
func (s *Store) Ping(ctx context.Context) error {
	if s.mongo != nil {
		return s.mongo.Ping(ctx)
	}
	return s.postgres.Ping(ctx)
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) {
	if s.mongo != nil {
		s.mongo.Close(ctx)
	}
	if s.postgres != nil {
		s.postgres.Close()
	}
}
