package app

import (
	"context"
	"errors"
	"fmt"

	"visacenter_backend/internal/auth"
	"visacenter_backend/internal/config"
	"visacenter_backend/internal/email"
	"visacenter_backend/internal/handlers"
	"visacenter_backend/internal/logger"
	"visacenter_backend/internal/middleware"
	"visacenter_backend/internal/models"
	"visacenter_backend/internal/notify"
	"visacenter_backend/internal/repositories"
	"visacenter_backend/internal/routes"
	"visacenter_backend/internal/services"
	"visacenter_backend/internal/storage"
	"visacenter_backend/internal/validator"
	"visacenter_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := autoMigrate(gormDB); err != nil {
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Фоновая уборка живет, пока жив процесс
	cleanup := workers.NewCleanupWorker(
		gormDB,
		repositories.NewRefreshTokenRepository(),
		repositories.NewPaymentRepository(),
	)
	cleanup.Start(context.Background())

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	serviceContainer := initializeServices(cfg, storageInstance)
	appHandlers := initializeHandlers(serviceContainer)
	ginRouter := initializeGinRouter(gormDB)

	routes.RegisterRoutes(ginRouter, appHandlers)

	return ginRouter
}

func initializeServices(cfg *config.Config, storageInstance storage.Storage) *services.ServiceContainer {
	// --- Репозитории (stateless, *gorm.DB приходит в каждый вызов) ---
	userRepo := repositories.NewUserRepository()
	refreshTokenRepo := repositories.NewRefreshTokenRepository()
	appRepo := repositories.NewApplicationRepository()
	postRepo := repositories.NewPostRepository()
	paymentRepo := repositories.NewPaymentRepository()
	notificationRepo := repositories.NewNotificationRepository()
	uploadRepo := repositories.NewUploadRepository()

	// --- Каналы уведомлений ---
	channels := []notify.Channel{
		notify.NewEmailChannel(email.NewSMTPSender(cfg)),
	}
	if cfg.Telegram.Enabled {
		channels = append(channels, notify.NewTelegramChannel(cfg.Telegram.BotToken, cfg.Telegram.ChatID))
	}
	dispatcher := notify.NewDispatcher(channels...)

	// --- Сервисы ---
	return &services.ServiceContainer{
		AuthService:         services.NewAuthService(cfg, userRepo, refreshTokenRepo, dispatcher),
		UserService:         services.NewUserService(userRepo),
		ApplicationService:  services.NewApplicationService(appRepo, userRepo, notificationRepo, dispatcher),
		ReviewService:       services.NewReviewService(appRepo, userRepo, notificationRepo, dispatcher),
		PostService:         services.NewPostService(postRepo),
		PaymentService:      services.NewPaymentService(cfg, paymentRepo, appRepo, userRepo, notificationRepo, dispatcher),
		NotificationService: services.NewNotificationService(notificationRepo),
		UploadService:       services.NewUploadService(cfg, uploadRepo, storageInstance),
	}
}

func initializeHandlers(sc *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:         handlers.NewAuthHandler(baseHandler, sc.AuthService, sc.UserService),
		ApplicationHandler:  handlers.NewApplicationHandler(baseHandler, sc.ApplicationService),
		AdminHandler:        handlers.NewAdminHandler(baseHandler, sc.ReviewService, sc.AuthService, sc.UserService),
		PostHandler:         handlers.NewPostHandler(baseHandler, sc.PostService),
		PaymentHandler:      handlers.NewPaymentHandler(baseHandler, sc.PaymentService),
		UploadHandler:       handlers.NewUploadHandler(baseHandler, sc.UploadService),
		NotificationHandler: handlers.NewNotificationHandler(baseHandler, sc.NotificationService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.RefreshToken{},
		&models.Application{},
		&models.Post{},
		&models.PaymentInvoice{},
		&models.Notification{},
		&models.Upload{},
	)
}

func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password not configured. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		Name:         "Administrator",
		Role:         models.UserRoleAdmin,
		IsVerified:   true,
	}

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
