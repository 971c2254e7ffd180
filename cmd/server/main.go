package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat_console/internal/config"
	"chat_console/internal/domain"
	"chat_console/internal/gateway"
	"chat_console/internal/handler"
	"chat_console/internal/middleware"
	"chat_console/internal/repository"
	"chat_console/internal/service"
	"chat_console/internal/ws"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// Загрузка конфигурации
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Инициализация логгера
	appLogger := logger.New(cfg.Log.Level)

	// Подключение к PostgreSQL
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := dbPool.Ping(context.Background()); err != nil {
		appLogger.Fatal("Failed to ping database", "error", err)
	}
	appLogger.Info("Database connection established")

	// Схема и учетная запись администратора
	if err := repository.InitSchema(context.Background(), dbPool, appLogger); err != nil {
		appLogger.Fatal("Failed to initialize schema", "error", err)
	}

	// Подключение к Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		appLogger.Fatal("Failed to connect to Redis", "error", err)
	}
	appLogger.Info("Redis connection established")

	// Инициализация репозиториев
	repos := repository.NewRepositories(dbPool, rdb, appLogger)

	if err := seedAdmin(context.Background(), repos.User, cfg.Seed, appLogger); err != nil {
		appLogger.Fatal("Failed to seed admin user", "error", err)
	}

	// Клиент внешнего шлюза и хаб live-консолей
	gatewayClient := gateway.NewClient(cfg.Gateway, appLogger)
	hub := ws.NewHub(appLogger)

	// Инициализация сервисов
	services := service.NewServices(repos, gatewayClient, hub, cfg, appLogger)

	// Инициализация middleware
	authMiddleware := middleware.NewAuthMiddleware(services.Auth, appLogger)
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(services.RateLimit, appLogger)

	// Инициализация handlers
	handlers := handler.NewHandlers(services, hub, cfg, appLogger)

	// Настройка роутера
	router := setupRouter(handlers, authMiddleware, rateLimitMiddleware, cfg, appLogger)

	// Запуск HTTP сервера
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		appLogger.Info("Starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", "error", err)
	}

	appLogger.Info("Server exited")
}

// seedAdmin создает администратора при первом старте. Пароль хранится
// только в виде bcrypt-хеша.
func seedAdmin(ctx context.Context, userRepo repository.UserRepository, cfg config.SeedConfig, log logger.Logger) error {
	_, err := userRepo.GetByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &domain.User{
		Username:     cfg.AdminUsername,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		return err
	}

	log.Info("Admin user created", "username", cfg.AdminUsername)
	return nil
}

func setupRouter(
	handlers *handler.Handlers,
	authMiddleware *middleware.AuthMiddleware,
	rateLimitMiddleware *middleware.RateLimitMiddleware,
	cfg *config.Config,
	log logger.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestLogger(log))

	// Health check
	router.GET("/health", handlers.Health.Check)

	// Статика с вложениями; шлюз скачивает медиа по этим же путям
	router.Static(cfg.Uploads.PublicPath, cfg.Uploads.Dir)

	api := router.Group("/api")
	{
		// Публичные endpoints
		api.POST("/auth/login", rateLimitMiddleware.Limit("login", 10, 60), handlers.Auth.Login)
		api.POST("/webhook/events", handlers.Webhook.InboundMessage)

		// Защищенные endpoints: bearer-токен, затем маскирование ответов операторам
		protected := api.Group("")
		protected.Use(authMiddleware.RequireAuth())
		protected.Use(middleware.Privacy(log))
		{
			protected.GET("/chats", handlers.Chat.List)
			protected.PATCH("/chats/:id/ai", handlers.Chat.ToggleAI)
			protected.GET("/messages/:chatId", handlers.Message.List)
			protected.POST("/messages", handlers.Message.Send)
			protected.GET("/ws", handlers.WebSocket.Live)
		}
	}

	return router
}
