package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"sendiab_backend/internal/auth"
	"sendiab_backend/internal/catalog"
	"sendiab_backend/internal/config"
	"sendiab_backend/internal/email"
	"sendiab_backend/internal/handlers"
	"sendiab_backend/internal/imageprocessor"
	"sendiab_backend/internal/logger"
	"sendiab_backend/internal/middleware"
	"sendiab_backend/internal/models"
	"sendiab_backend/internal/photoarchive"
	"sendiab_backend/internal/routes"
	"sendiab_backend/internal/services"
	"sendiab_backend/internal/store"
	"sendiab_backend/internal/validator"
	"sendiab_backend/internal/vision"
	"sendiab_backend/internal/workers"
)

func Run() {
	if err := config.LoadConfig(); err != nil {
		panic(err)
	}
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ginRouter, accounts, err := SetupRouter(cfg)
	if err != nil {
		logger.Fatal("Failed to set up application", "error", err)
	}

	if err := seedFirstAdmin(accounts, cfg); err != nil {
		logger.Fatal("Failed to seed first admin account", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	workers.NewLicenseWorker(accounts, time.Hour).Start(ctx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full application graph and returns the router
// plus the account ledger, which the caller needs for seeding and the
// expiry worker. Tests call this directly against a temp-dir config.
func SetupRouter(cfg *config.Config) (*gin.Engine, store.AccountStore, error) {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return nil, nil, err
	}

	snapshotter := store.NewFileSnapshotter(cfg.Data.AccountsPath)
	accounts, err := store.NewAccountStore(snapshotter, cat)
	if err != nil {
		return nil, nil, err
	}
	readings := store.NewReadingStore()

	tokens := auth.NewTokenIssuer(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TTLMinutes)*time.Minute)

	analyzer := vision.NewOpenAIAnalyzer(vision.Config{
		Endpoint: cfg.Vision.Endpoint,
		APIKey:   cfg.Vision.APIKey,
		Model:    cfg.Vision.Model,
		Timeout:  time.Duration(cfg.Vision.TimeoutSeconds) * time.Second,
		Fallback: cfg.Vision.FallbackValue,
		Strict:   cfg.Vision.Strict,
	})
	normalizer := imageprocessor.NewNormalizer(cfg.Vision.MaxImageEdge, 0)

	emailProvider := buildEmailProvider(cfg)

	archive, err := photoarchive.New(photoarchive.Config{
		Type:      cfg.Archive.Type,
		BasePath:  cfg.Archive.BasePath,
		Bucket:    cfg.Archive.Bucket,
		Endpoint:  cfg.Archive.Endpoint,
		AccessKey: cfg.Archive.AccessKey,
		SecretKey: cfg.Archive.SecretKey,
	})
	if err != nil {
		return nil, nil, err
	}

	authService := services.NewAuthService(accounts, tokens)
	accountService := services.NewAccountService(accounts, cat, emailProvider)
	uploadService := services.NewUploadService(accounts, readings, analyzer, normalizer, archive)
	readingService := services.NewReadingService(readings)

	baseHandler := handlers.NewBaseHandler(validator.New())
	appHandlers := &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, authService),
		AccountHandler: handlers.NewAccountHandler(baseHandler, accountService),
		ReadingHandler: handlers.NewReadingHandler(baseHandler, uploadService, readingService, cfg.Upload.MaxSize),
		AdminHandler:   handlers.NewAdminHandler(baseHandler, accountService),
	}

	ginRouter := initializeGinRouter(cfg)
	routes.RegisterRoutes(ginRouter, appHandlers, tokens)

	return ginRouter, accounts, nil
}

func loadCatalog(cfg *config.Config) (*catalog.Catalog, error) {
	if cfg.Data.PlansPath == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(cfg.Data.PlansPath)
	if err != nil {
		return nil, err
	}
	logger.Info("License catalog loaded", "path", cfg.Data.PlansPath, "plans", len(cat.List()))
	return cat, nil
}

func buildEmailProvider(cfg *config.Config) email.Provider {
	if cfg.Email.SMTPHost == "" {
		logger.Warn("SMTP is not configured; credential emails are disabled")
		return email.NoopProvider{}
	}
	return email.NewSMTPProvider(email.SMTPConfig{
		Host:     cfg.Email.SMTPHost,
		Port:     cfg.Email.SMTPPort,
		Username: cfg.Email.SMTPUsername,
		Password: cfg.Email.SMTPPassword,
		From:     cfg.Email.FromEmail,
		FromName: cfg.Email.FromName,
	})
}

func initializeGinRouter(cfg *config.Config) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	return router
}

// seedFirstAdmin creates the configured admin account when it does not
// exist yet. Without it a fresh deployment has no way to provision
// practitioner licenses.
func seedFirstAdmin(accounts store.AccountStore, cfg *config.Config) error {
	adminID := cfg.Auth.FirstAdminID
	adminSecret := cfg.Auth.FirstAdminSecret

	if adminID == "" || adminSecret == "" {
		logger.Warn("FIRST_ADMIN_ID or FIRST_ADMIN_SECRET is not set. Skipping admin seeding.")
		return nil
	}

	if _, err := accounts.Get(adminID); err == nil {
		logger.Info("Admin account already exists. Skipping creation.", "account_id", adminID)
		return nil
	}

	logger.Warn("No admin account found. Creating first admin...", "account_id", adminID)

	_, _, err := accounts.Create(store.CreateAccountParams{
		AccountID:   adminID,
		DisplayName: "Administrator",
		Email:       cfg.Auth.FirstAdminEmail,
		Role:        models.AccountRoleAdmin,
		Secret:      adminSecret,
	})
	if err != nil {
		return fmt.Errorf("seed first admin: %w", err)
	}

	logger.Info("First admin account created", "account_id", adminID)
	return nil
}
