// Command complaintctl performs operator tasks against the complaint store.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/auth"
	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/observability"
	"github.com/spec-kit/complaint-service/internal/persistence"
	"github.com/spec-kit/complaint-service/internal/service"
)

var version = "dev"

func main() {
	cmd := &cli.Command{
		Name:    "complaintctl",
		Usage:   "operator tasks for the complaint service",
		Version: version,
		Commands: []*cli.Command{
			createAdminCommand(),
			migrateCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("complaintctl: %v", err)
	}
}

func createAdminCommand() *cli.Command {
	return &cli.Command{
		Name:  "create-admin",
		Usage: "create an admin account without a registration key",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "name", Usage: "display name", Required: true},
			&cli.StringFlag{Name: "email", Usage: "login email", Required: true},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "initial password",
				Sources: cli.EnvVars("COMPLAINTCTL_ADMIN_PASSWORD"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			password := cmd.String("password")
			if password == "" {
				return errors.New("password required (--password or COMPLAINTCTL_ADMIN_PASSWORD)")
			}
			return withStore(ctx, func(cfg *config.Config, store *persistence.Store, logger *zap.Logger) error {
				identity := service.NewIdentityService(service.IdentityDependencies{
					UserRepo:   store.Users,
					Tokens:     auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
					Gate:       auth.NewKeyAllowList(nil, nil),
					BcryptCost: cfg.Auth.BcryptCost,
					Logger:     logger,
				})
				admin, err := identity.CreateAdmin(ctx, cmd.String("name"), cmd.String("email"), password)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.Root().Writer, "admin created: id=%s email=%s\n", admin.ID, admin.Email)
				return nil
			})
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply SQL migrations (postgres) or ensure indexes (mongo)",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "migrations directory", Value: "migrations"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			cfg.Postgres.MigrationsDir = cmd.String("dir")
			cfg.Postgres.RunMigrations = true
			logger, err := observability.NewLogger(cfg.Logger, cfg.App)
			if err != nil {
				return err
			}
			defer logger.Sync() //nolint:errcheck

			store, err := persistence.OpenStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			store.Close(context.Background())
			fmt.Fprintf(cmd.Root().Writer, "%s schema up to date\n", store.Driver)
			return nil
		},
	}
}

func withStore(ctx context.Context, fn func(*config.Config, *persistence.Store, *zap.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	store, err := persistence.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())
	return fn(cfg, store, logger)
}
