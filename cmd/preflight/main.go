// Command preflight checks that every external dependency in the environment is reachable
// before the API is deployed.
package main

import (
	"context"
	"os"
	"time"

	"github.com/xyz-asif/medcamp/internal/config"
	"github.com/xyz-asif/medcamp/internal/database"
	"github.com/xyz-asif/medcamp/internal/features/auth"
	"github.com/xyz-asif/medcamp/internal/pkg/cloudinary"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/payment"
)

type check struct {
	name string
	run  func(ctx context.Context, cfg *config.Config) error
}

var checks = []check{
	{"config", func(_ context.Context, cfg *config.Config) error {
		return cfg.Validate()
	}},
	{"mongodb", func(ctx context.Context, cfg *config.Config) error {
		db, err := database.Connect(database.Options{URI: cfg.MongoConnectionURI(), DBName: cfg.MongoDB})
		if err != nil {
			return err
		}
		defer db.Disconnect(ctx)
		return db.Ping(ctx)
	}},
	{"identity", func(ctx context.Context, cfg *config.Config) error {
		_, err := auth.NewVerifier(ctx, cfg.IdentityProvider, cfg.FirebaseServiceAccountPath, cfg.GoogleClientID)
		return err
	}},
	{"payments", func(_ context.Context, cfg *config.Config) error {
		_, err := payment.NewProvider(payment.Options{Provider: cfg.PaymentProvider, StripeSecretKey: cfg.StripeSecretKey})
		return err
	}},
	{"cloudinary", func(_ context.Context, cfg *config.Config) error {
		if !cfg.CloudinaryEnabled() {
			logger.Warn().Msg("cloudinary not configured, skipping")
			return nil
		}
		_, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "medcamp")
		return err
	}},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	failed := 0
	for _, c := range checks {
		if err := c.run(ctx, cfg); err != nil {
			failed++
			logger.Error().Err(err).Str("check", c.name).Msg("failed")
			continue
		}
		logger.Info().Str("check", c.name).Msg("ok")
	}

	if failed > 0 {
		logger.Error().Int("failed", failed).Msg("preflight failed")
		os.Exit(1)
	}
	logger.Info().Msg("all systems ready")
}
