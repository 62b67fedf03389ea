package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Negi04/Criminals-Record-Management-System/internal/auth"
	"github.com/Negi04/Criminals-Record-Management-System/internal/background"
	"github.com/Negi04/Criminals-Record-Management-System/internal/config"
	"github.com/Negi04/Criminals-Record-Management-System/internal/database"
	"github.com/Negi04/Criminals-Record-Management-System/internal/handlers"
	middlewareCustom "github.com/Negi04/Criminals-Record-Management-System/internal/middleware"
	"github.com/Negi04/Criminals-Record-Management-System/internal/models"
	"github.com/Negi04/Criminals-Record-Management-System/internal/repositories"
	"github.com/Negi04/Criminals-Record-Management-System/internal/routes"
	"github.com/Negi04/Criminals-Record-Management-System/internal/services"
	"github.com/Negi04/Criminals-Record-Management-System/internal/storage"
	pkgauth "github.com/Negi04/Criminals-Record-Management-System/pkg/auth"
	pkglogger "github.com/Negi04/Criminals-Record-Management-System/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	criminalRepo := repositories.NewCriminalRepository(db)

	// Initialize photo storage
	photoStore, err := storage.NewPhotoStore(cfg.Storage, logger)
	if err != nil {
		logger.Error("failed to initialize photo storage", slog.Any("error", err))
		os.Exit(1)
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := photoStore.EnsureBucket(startupCtx); err != nil {
		startupCancel()
		logger.Error("failed to ensure photo bucket", slog.Any("error", err))
		os.Exit(1)
	}

	// Email service: AWS SES when enabled, a logging no-op otherwise
	var emailService services.EmailService
	if cfg.Email.Enabled {
		emailService, err = services.NewAWSSESEmailService(cfg.Email.AWSRegion, cfg.Email.FromAddress, logger)
		if err != nil {
			startupCancel()
			logger.Error("failed to initialize email service", slog.Any("error", err))
			os.Exit(1)
		}
	} else {
		emailService = services.NewNoopEmailService(logger)
	}

	// Initialize token manager
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)

	auditLogger := pkglogger.NewAuditLogger(logger)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, logger, auditLogger)
	userService := services.NewUserService(userRepo, emailService, logger, auditLogger)
	criminalService := services.NewCriminalService(criminalRepo, userRepo, photoStore, logger, auditLogger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	criminalHandler := handlers.NewCriminalHandler(criminalService, photoStore)
	officerHandler := handlers.NewOfficerHandler(userService, criminalService)

	// Bootstrap first admin user if configured
	if err := ensureAdminUser(startupCtx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	startupCancel()

	// Initialize orphaned photo sweeper
	photoSweeper := background.NewPhotoSweeper(photoStore, criminalRepo, logger, cfg.Storage.SweepInterval)

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(middlewareCustom.DefaultCORSConfig(cfg.Server.AllowedOrigins)))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	router.Route("/api", func(r chi.Router) {
		routes.RegisterRoutes(r, authHandler, userHandler, criminalHandler, officerHandler, tokenManager)
	})

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.HealthCheck(ctx); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start sweep task
	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()

	go photoSweeper.Start(sweepCtx)

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	sweepCancel()
	photoSweeper.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}

// ensureAdminUser creates the first admin account if ADMIN_NATIONAL_ID and
// ADMIN_PASSWORD are set. The bootstrap account is approved immediately so it
// can log in and decide pending registrations.
func ensureAdminUser(ctx context.Context, userRepo *repositories.UserRepository, logger *slog.Logger) error {
	adminNationalID := os.Getenv("ADMIN_NATIONAL_ID")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminNationalID == "" || adminPassword == "" {
		logger.Info("no ADMIN_NATIONAL_ID or ADMIN_PASSWORD set, skipping admin user creation")
		return nil
	}

	_, err := userRepo.GetByNationalID(ctx, adminNationalID)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		NationalID:   adminNationalID,
		Name:         getEnvDefault("ADMIN_NAME", "Administrator"),
		Email:        getEnvDefault("ADMIN_EMAIL", "admin@localhost"),
		PasswordHash: hashedPassword,
		Role:         models.RoleAdmin,
		Status:       models.UserStatusApproved,
	}

	_, err = userRepo.Create(ctx, admin)
	if err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully")
	return nil
}

func getEnvDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
