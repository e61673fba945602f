// @title Medical Camp API
// @version 1.0
// @description Camps, registrations, payments and feedback for medical camps
// @host localhost:5000
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer <token>"
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	docs "github.com/xyz-asif/medcamp/docs"
	"github.com/xyz-asif/medcamp/internal/config"
	"github.com/xyz-asif/medcamp/internal/database"
	"github.com/xyz-asif/medcamp/internal/features/auth"
	"github.com/xyz-asif/medcamp/internal/features/camps"
	"github.com/xyz-asif/medcamp/internal/middleware"
	"github.com/xyz-asif/medcamp/internal/pkg/cloudinary"
	"github.com/xyz-asif/medcamp/internal/pkg/logger"
	"github.com/xyz-asif/medcamp/internal/pkg/metrics"
	"github.com/xyz-asif/medcamp/internal/pkg/payment"
	"github.com/xyz-asif/medcamp/internal/pkg/ratelimit"
	"github.com/xyz-asif/medcamp/internal/pkg/token"
	"github.com/xyz-asif/medcamp/internal/pkg/validator"
	"github.com/xyz-asif/medcamp/internal/routes"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)

	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	docs.SwaggerInfo.Host = "localhost:" + cfg.Port

	db, err := database.Connect(database.Options{
		URI:          cfg.MongoConnectionURI(),
		DBName:       cfg.MongoDB,
		Transactions: cfg.MongoTransactions,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Disconnect(ctx); err != nil {
			logger.Error().Err(err).Msg("disconnect MongoDB")
		}
	}()
	logger.Info().Str("db", cfg.MongoDB).Bool("transactions", cfg.MongoTransactions).Msg("connected to MongoDB")

	provider, err := payment.NewProvider(payment.Options{
		Provider:        cfg.PaymentProvider,
		StripeSecretKey: cfg.StripeSecretKey,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("payment provider")
	}

	verifier, err := auth.NewVerifier(context.Background(), cfg.IdentityProvider, cfg.FirebaseServiceAccountPath, cfg.GoogleClientID)
	if err != nil {
		logger.Fatal().Err(err).Msg("identity verifier")
	}

	var uploader camps.ImageUploader
	if cfg.CloudinaryEnabled() {
		svc, err := cloudinary.NewService(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, "medcamp")
		if err != nil {
			logger.Fatal().Err(err).Msg("cloudinary")
		}
		uploader = svc
	} else {
		logger.Warn().Msg("cloudinary not configured, camp image uploads disabled")
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()
	metrics.Register()

	stop := make(chan struct{})
	limiter := ratelimit.New(cfg.RateLimitRPS, cfg.RateLimitBurst)
	limiter.StartCleanup(time.Minute, stop)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.Metrics())
	router.Use(middleware.CORS(cfg.FrontendURL))
	router.Use(ratelimit.Middleware(limiter))

	routes.Setup(router, db, routes.Deps{
		Tokens:   token.NewService(cfg.TokenSecret, time.Duration(cfg.TokenExpireHours)*time.Hour),
		Payments: provider,
		Currency: cfg.PaymentCurrency,
		Verifier: verifier,
		Uploader: uploader,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("port", cfg.Port).Str("payments", provider.Name()).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	close(stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server exited")
}
