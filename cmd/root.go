package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"assetledger/internal/cache"
	"assetledger/internal/config"
	"assetledger/internal/core/container"
	"assetledger/internal/core/logger"
	"assetledger/internal/core/routes"
	"assetledger/internal/database"
	"assetledger/internal/events"
	"assetledger/internal/rate_limiter"
	"assetledger/internal/scheduler"
	"assetledger/pkg/roles"
	"assetledger/pkg/security"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg    config.Config
	logger *zap.Logger
}

func (a *app) load(cmd *cobra.Command) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger.NewLogger(cfg.IsProduction())
	return nil
}

func (a *app) dependencies(ctx context.Context) (container.Dependencies, func(), error) {
	if err := a.cfg.RequireDatabase(); err != nil {
		return container.Dependencies{}, nil, err
	}

	db, err := database.NewPostgresConnection(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return container.Dependencies{}, nil, err
	}
	a.logger.Info("Connected to the database")

	rdb, err := cache.Connect(ctx, a.cfg.RedisURL, a.logger)
	if err != nil {
		_ = db.Close()
		return container.Dependencies{}, nil, err
	}

	nc, err := events.Connect(a.cfg.NatsURL, a.logger)
	if err != nil {
		_ = db.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
		return container.Dependencies{}, nil, err
	}

	closeAll := func() {
		if nc != nil {
			_ = nc.Drain()
		}
		if rdb != nil {
			_ = rdb.Close()
		}
		_ = db.Close()
	}

	return container.Dependencies{
		DB:            db,
		Redis:         rdb,
		Nats:          nc,
		StateCacheTTL: a.cfg.StateCacheTTL,
		Logger:        a.logger,
	}, closeAll, nil
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			defer a.logger.Sync()

			if err := security.SetSecret(a.cfg.JWTSecret); err != nil {
				return err
			}

			ctx := cmd.Context()
			deps, closeAll, err := a.dependencies(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			c := container.NewAppContainer(deps)

			sched, err := scheduler.NewReevaluationScheduler(a.cfg.ReevaluateCron, c.Ledger, time.Hour, a.logger.Named("scheduler"))
			if err != nil {
				return err
			}
			if sched != nil {
				sched.Start()
				defer sched.Stop()
			}

			var limiter *rate_limiter.RateLimiter
			if a.cfg.WriteRateLimit > 0 {
				limiter = rate_limiter.NewRateLimiter(a.cfg.WriteRateLimit, time.Minute)
				go limiter.Run(ctx)
			}

			router := routes.NewRouter(c, routes.HealthChecks(c, deps), a.cfg.RequestTimeout, limiter, a.logger)
			server := &http.Server{
				Addr:              a.cfg.AppHost,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("Starting server", zap.String("addr", a.cfg.AppHost))
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			a.logger.Info("Shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func (a *app) migrateCmd() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run migrations manually.",
		Long:  `Applies every pending migration from --dir to DATABASE_URL.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			defer a.logger.Sync()

			migrationDir, _ := cmd.Flags().GetString("dir")
			if migrationDir == "" {
				migrationDir = a.cfg.MigrationsDir
			}

			if steps, _ := cmd.Flags().GetInt("rollback"); steps > 0 {
				if err := database.RollbackMigrations(a.cfg.DatabaseURL, migrationDir, steps, a.logger); err != nil {
					return fmt.Errorf("rollback database: %w", err)
				}
				return nil
			}

			if err := database.RunMigrations(a.cfg.DatabaseURL, migrationDir, a.logger); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}

			return nil
		},
	}
	migrateCmd.Flags().String("dir", "", "Directory containing the migration files (default MIGRATIONS_DIR)")
	migrateCmd.Flags().Int("rollback", 0, "Revert this many migrations instead of applying")

	return migrateCmd
}

func (a *app) reevaluateCmd() *cobra.Command {
	reevaluateCmd := &cobra.Command{
		Use:   "reevaluate",
		Short: "Recompute derived asset custody from the log.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			defer a.logger.Sync()

			ctx := cmd.Context()
			deps, closeAll, err := a.dependencies(ctx)
			if err != nil {
				return err
			}
			defer closeAll()

			c := container.NewAppContainer(deps)

			assetID, _ := cmd.Flags().GetInt("asset")
			if assetID > 0 {
				custody, err := c.Ledger.Reevaluate(ctx, assetID)
				if err != nil {
					return err
				}
				a.logger.Info("Asset reevaluated", zap.Int("asset_id", assetID), zap.Any("custody", custody))
				return nil
			}

			done, err := c.Ledger.ReevaluateAll(ctx)
			a.logger.Info("Assets reevaluated", zap.Int("assets", done))
			return err
		},
	}
	reevaluateCmd.Flags().Int("asset", 0, "Only reevaluate this asset id")

	return reevaluateCmd
}

func (a *app) tokenCmd() *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an API token for development.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(cmd); err != nil {
				return err
			}
			if err := security.SetSecret(a.cfg.JWTSecret); err != nil {
				return err
			}

			role, _ := cmd.Flags().GetString("role")
			if !roles.Role(role).IsValid() {
				return fmt.Errorf("unknown role %q", role)
			}
			ttl, _ := cmd.Flags().GetDuration("ttl")
			username, _ := cmd.Flags().GetString("username")

			token, err := security.GenerateJWT(args[0], role, username, ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	tokenCmd.Flags().String("role", string(roles.User), "Role claim: user, moderator or admin")
	tokenCmd.Flags().String("username", "", "Username claim")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")

	return tokenCmd
}

func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "assetledger",
		Short:         "Asset ledger service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("config", ".", "Directory holding an optional config.yaml")

	rootCmd.AddCommand(a.serveCmd(), a.migrateCmd(), a.reevaluateCmd(), a.tokenCmd())
	return rootCmd
}

func Execute(ctx context.Context) {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
