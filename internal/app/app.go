package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"campaignhub_backend/database"
	"campaignhub_backend/internal/auth"
	"campaignhub_backend/internal/config"
	"campaignhub_backend/internal/email"
	"campaignhub_backend/internal/handlers"
	"campaignhub_backend/internal/logger"
	"campaignhub_backend/internal/middleware"
	"campaignhub_backend/internal/models"
	"campaignhub_backend/internal/repositories"
	"campaignhub_backend/internal/repositories/memory"
	"campaignhub_backend/internal/routes"
	"campaignhub_backend/internal/services"
	"campaignhub_backend/internal/validator"
	"campaignhub_backend/internal/workers"
	"campaignhub_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)
	apperrors.SetDebug(cfg.Server.Env != "production")
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}

	if err := seedFirstAdmin(ctx, repos.Users, cfg); err != nil {
		// Без админа сервер не поднимаем
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	container := initializeServices(cfg, repos)
	defer container.EmailService.Close()

	workers.NewNotificationWorker(
		container.NotificationService,
		time.Duration(cfg.Notifications.CleanupMinutes)*time.Minute,
		cfg.Notifications.RetentionDays,
	).Start(ctx)

	ginRouter := SetupRouter(cfg, container)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:              address,
		Handler:           ginRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server startup error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
}

// SetupRouter собирает хэндлеры и регистрирует маршруты
func SetupRouter(cfg *config.Config, container *services.ServiceContainer) *gin.Engine {
	appHandlers := initializeHandlers(container, cfg.JWT.Secret)
	ginRouter := initializeGinRouter()
	routes.RegisterRoutes(ginRouter, appHandlers)
	return ginRouter
}

// openRepositories выбирает хранилище по database.driver
func openRepositories(cfg *config.Config) (*repositories.Repositories, error) {
	if cfg.Database.Driver == database.DriverMemory {
		logger.Warn("Using in-memory storage, data is lost on restart")
		repos, _ := memory.NewRepositories()
		return repos, nil
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := database.ConnectGorm(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		return nil, err
	}
	return repositories.NewGormRepositories(gormDB), nil
}

func initializeServices(cfg *config.Config, repos *repositories.Repositories) *services.ServiceContainer {
	return services.NewServiceContainer(repos, newEmailProvider(cfg), services.ServiceOptions{
		AppealFormName: cfg.Workflow.AppealFormName,
	})
}

func newEmailProvider(cfg *config.Config) email.Provider {
	smtpConfig := email.ConfigFromSettings(cfg.Email)
	if smtpConfig == nil {
		logger.Warn("Email is disabled, using no-op provider")
		return &NoopEmailProvider{}
	}

	renderer, err := email.NewTemplateManager()
	if err != nil {
		logger.Error("Failed to load email templates, using no-op provider", "error", err)
		return &NoopEmailProvider{}
	}

	provider := email.NewSMTPProvider(smtpConfig, renderer)
	if err := provider.Validate(); err != nil {
		logger.Error("Invalid SMTP configuration, using no-op provider", "error", err)
		return &NoopEmailProvider{}
	}
	return provider
}

func initializeHandlers(container *services.ServiceContainer, jwtSecret string) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator, middleware.AuthMiddleware(jwtSecret))

	return &handlers.AppHandlers{
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, container.ApplicationService, container.CommentViewService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, container.PaymentService, container.CommentViewService),
		BulkHandler:         handlers.NewBulkHandler(baseHandler, container.BulkReviewService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, container.NotificationService),
	}
}

func initializeGinRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.RecoveryMiddleware())
	return router
}

// seedFirstAdmin создает superadmin-а со всеми разрешениями, если его еще нет
func seedFirstAdmin(ctx context.Context, users repositories.UserRepository, cfg *config.Config) error {
	adminEmail := cfg.FirstAdminEmail
	adminPassword := cfg.FirstAdminPassword

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	if _, err := users.FindByEmail(ctx, adminEmail); err == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	} else if !errors.Is(err, repositories.ErrUserNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}

	if err := auth.ValidatePassword(adminPassword); err != nil {
		return err
	}

	logger.Warn("No admin user found with specified email. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         "Administrator",
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Role:         models.UserRoleSuperAdmin,
		Permissions:  append([]string(nil), auth.AllPermissions...),
	}
	if err := users.Create(ctx, newAdmin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("Successfully created first admin user", "email", adminEmail)
	return nil
}
