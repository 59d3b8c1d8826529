package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"capability-sync/internal/config"
	"capability-sync/internal/database/migration"
	dbpostgres "capability-sync/internal/database/postgres"
	"capability-sync/internal/database/seeder"
	"capability-sync/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errMemoryStore = errors.New("STORE_DRIVER=memory has no database to prepare")

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, db *dbpostgres.Pool, logger *zap.Logger) error {
				n, err := (migration.Runner{Logger: logger}).Run(ctx, db.SQLDB())
				if err != nil {
					return err
				}
				logger.Info("migrations complete", zap.Int("applied", n))
				return nil
			})
		},
	}
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default skill catalog and development directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(cmd.Context(), func(ctx context.Context, db *dbpostgres.Pool, logger *zap.Logger) error {
				return seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}.Run(ctx, db)
			})
		},
	}
}

func tokenCmd() *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <person-id>",
		Short: "Mint an access token for a person",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			personID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid person id: %w", err)
			}
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			expires := cfg.JWT.AccessExpiresIn
			if ttl > 0 {
				expires = ttl
			}
			tok, err := jwt.NewHMACService(cfg.JWT.AccessSecret, expires).GenerateAccessToken(personID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (defaults to JWT_ACCESS_EXPIRES_IN)")
	return cmd
}

func withDatabase(ctx context.Context, fn func(ctx context.Context, db *dbpostgres.Pool, logger *zap.Logger) error) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Store.Driver == config.StoreDriverMemory {
		return errMemoryStore
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	return fn(ctx, db, logger)
}
