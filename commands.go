package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"liff-member-backend/config"
	"liff-member-backend/models"
	"liff-member-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the customers, auth_users and orphan_identities tables",
	RunE:  runMigrate,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep-orphans",
	Short: "Retry deleting identities left behind by failed registrations",
	RunE:  runSweep,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, sweepCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.cfg.Server.AppEnv != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	if a.orphans != nil {
		if err := a.orphans.StartScheduler(a.cfg.Orphans.SweepSchedule); err != nil {
			return err
		}
		defer a.orphans.Stop()
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config:    a.cfg,
		Logger:    a.logger,
		Registrar: a.registrar,
		Verifier:  a.verifier,
	})
	printRoutes(a.logger, r)

	srv := &http.Server{
		Addr:              ":" + a.cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("customer_backend", a.cfg.CustomerBackend),
			zap.String("identity_provider", a.cfg.IdentityProvider),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("%w: DB_URL", config.ErrConfigurationMissing)
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck
	logEnvFile(logger, cfg)

	db, err := config.ConnectDB(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := config.CloseDB(db); err != nil {
			logger.Warn("failed to close database", zap.Error(err))
		}
	}()

	if err := db.WithContext(cmd.Context()).AutoMigrate(
		&models.Customer{},
		&models.AuthUser{},
		&models.OrphanIdentity{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	logger.Info("migration completed")
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	a, err := bootstrap(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	if a.orphans == nil {
		return fmt.Errorf("%w: DB_URL", config.ErrConfigurationMissing)
	}

	result, err := a.orphans.SweepOrphans(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "resolved=%d failed=%d skipped=%d\n", result.Resolved, result.Failed, result.Skipped)
	return nil
}

func printRoutes(logger *zap.Logger, r *gin.Engine) {
	for _, route := range r.Routes() {
		logger.Debug("route", zap.String("method", route.Method), zap.String("path", route.Path))
	}
}
