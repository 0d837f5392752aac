package main

import (
	"context"
	"fmt"

	"liff-member-backend/config"
	"liff-member-backend/services"
	"liff-member-backend/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds the components selected by configuration.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	registrar services.Registrar
	orphans   *services.OrphanService
	verifier  utils.TokenVerifier
}

func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := config.NewLogger(cfg.Logger)
	if err != nil {
		return nil, err
	}
	logEnvFile(logger, cfg)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Sync() //nolint:errcheck
		return nil, err
	}
	return a, nil
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	if cfg.NeedsDatabase() {
		db, err := config.ConnectDB(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.db = db
	}

	var supabase *services.SupabaseClient
	if cfg.NeedsSupabase() {
		supabase = services.NewSupabaseClient(cfg.Supabase)
	}

	var customers services.CustomerStore
	switch cfg.CustomerBackend {
	case config.BackendSupabase:
		customers = supabase
	case config.BackendPostgres:
		customers = services.NewGormCustomerStore(a.db)
	default:
		return nil, fmt.Errorf("unknown customer backend %q", cfg.CustomerBackend)
	}

	var identities services.IdentityProvider
	switch cfg.IdentityProvider {
	case config.IdentitySupabase:
		identities = supabase
	case config.IdentityFirebase:
		fb, err := services.NewFirebaseIdentityProvider(ctx, cfg.Firebase)
		if err != nil {
			return nil, err
		}
		identities = fb
	case config.IdentityLocal:
		identities = services.NewLocalIdentityProvider(a.db)
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.IdentityProvider)
	}

	opts := []services.RegistrationOption{
		services.WithFormValidator(utils.FormValidator{StrictDistrict: cfg.Registration.StrictDistrict}),
	}

	if a.db != nil {
		var alerter services.Alerter
		if cfg.Twilio.Enabled() {
			alerter = services.NewSMSAlerter(cfg.Twilio, logger)
		}
		a.orphans = services.NewOrphanService(services.NewGormOrphanRepository(a.db), identities, alerter, logger)
		opts = append(opts, services.WithOrphanRecorder(a.orphans))
	}

	a.registrar = services.NewRegistrationService(customers, identities, logger, opts...)

	if cfg.Line.VerifyTokens {
		a.verifier = services.NewLineVerifier(cfg.Line)
	}

	return a, nil
}

func (a *app) Close() {
	if a.db != nil {
		if err := config.CloseDB(a.db); err != nil {
			a.logger.Warn("failed to close database", zap.Error(err))
		}
	}
	a.logger.Sync() //nolint:errcheck
}

func logEnvFile(logger *zap.Logger, cfg *config.Config) {
	if !cfg.EnvFileLoaded {
		logger.Info("No .env file found, using process environment")
	}
}
