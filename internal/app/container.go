package app

import (
	"context"
	"errors"
	"time"

	"capability-sync/internal/config"
	"capability-sync/internal/database"
	"capability-sync/internal/database/migration"
	dbpostgres "capability-sync/internal/database/postgres"
	"capability-sync/internal/database/seeder"
	"capability-sync/internal/infrastructure/cache"
	"capability-sync/internal/pkg/jwt"
	"capability-sync/internal/pkg/metrics"
	"capability-sync/internal/repository"
	"capability-sync/internal/repository/memory"
	"capability-sync/internal/ws"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"
)

const metricsNamespace = "capability_sync"

type Repositories struct {
	Skills       repository.SkillRepository
	Persons      repository.PersonRepository
	Roles        repository.RoleRepository
	Capabilities repository.CapabilityRepository
	Validations  repository.ValidationRepository
	Requirements repository.RequirementRepository
}

type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	DB      database.DB
	Repos   Repositories
	Cache   *cache.Redis
	Hub     *ws.Hub
	Pool    pond.Pool
	Metrics *metrics.Recorder
	JWT     *jwt.HMACService
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Container{Config: cfg, Logger: logger}

	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		store := memory.New()
		if cfg.Store.SeedOnStart {
			seeder.Into(store)
		}
		c.Repos = memoryRepositories(store)
		logger.Info("using in-memory store", zap.Bool("seeded", cfg.Store.SeedOnStart))
	default:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		c.DB = db
		if err := prepareDatabase(ctx, db, cfg.Store.SeedOnStart, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
		c.Repos = postgresRepositories(db, cfg.Batch.ChunkSize)
	}

	c.Cache = cache.NewRedis(cfg.Redis, logger)
	c.Hub = ws.NewHub(logger)
	go c.Hub.Run()

	workers := cfg.Matching.Workers
	if workers <= 0 {
		workers = 1
	}
	c.Pool = pond.NewPool(workers)
	c.Metrics = metrics.New(metricsNamespace)
	c.JWT = jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiresIn)

	return c, nil
}

func memoryRepositories(s *memory.Store) Repositories {
	return Repositories{
		Skills:       s.Skills(),
		Persons:      s.Persons(),
		Roles:        s.Roles(),
		Capabilities: s.Capabilities(),
		Validations:  s.Validations(),
		Requirements: s.Requirements(),
	}
}

func postgresRepositories(db database.DB, chunkSize int) Repositories {
	return Repositories{
		Skills:       repository.NewPostgresSkillRepository(db),
		Persons:      repository.NewPostgresPersonRepository(db),
		Roles:        repository.NewPostgresRoleRepository(db),
		Capabilities: repository.NewPostgresCapabilityRepository(db, chunkSize),
		Validations:  repository.NewPostgresValidationRepository(db, chunkSize),
		Requirements: repository.NewPostgresRequirementRepository(db, chunkSize),
	}
}

// prepareDatabase applies pending migrations and, when asked, the default
// seeders.
func prepareDatabase(ctx context.Context, db database.DB, seed bool, logger *zap.Logger) error {
	if _, err := (migration.Runner{Logger: logger}).Run(ctx, db.SQLDB()); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	return seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}.Run(ctx, db)
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.Pool != nil {
		c.Pool.StopAndWait()
	}
	if c.Hub != nil {
		c.Hub.Stop()
	}

	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	_ = c.Logger.Sync()
	return errors.Join(errs...)
}
