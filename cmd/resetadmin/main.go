package main

import (
	"context"
	"flag"
	"log"

	"chat_console/internal/config"
	"chat_console/internal/domain"
	"chat_console/internal/repository"
	"chat_console/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

// Утилита ручного сброса администратора: удаляет существующую учетную
// запись и создает новую. Пароль всегда хранится bcrypt-хешем.
func main() {
	username := flag.String("username", "admin", "admin username to reset")
	password := flag.String("password", "", "new admin password (required)")
	flag.Parse()

	if *password == "" {
		log.Fatal("password flag is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(cfg.Log.Level)
	ctx := context.Background()

	dbPool, err := pgxpool.New(ctx, cfg.Database.DSN)
	if err != nil {
		appLogger.Fatal("Failed to connect to database", "error", err)
	}
	defer dbPool.Close()

	if err := repository.InitSchema(ctx, dbPool, appLogger); err != nil {
		appLogger.Fatal("Failed to initialize schema", "error", err)
	}

	userRepo := repository.NewUserRepository(dbPool, appLogger)

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		appLogger.Fatal("Failed to hash password", "error", err)
	}

	// На пользователя могут ссылаться диалоги и сообщения, поэтому
	// существующая запись не удаляется, а получает новый хеш пароля
	existing, err := userRepo.GetByUsername(ctx, *username)
	if err == nil {
		if err := userRepo.UpdatePasswordHash(ctx, existing.ID, string(hash)); err != nil {
			appLogger.Fatal("Failed to update admin password", "error", err)
		}
		appLogger.Info("Admin password has been reset", "username", *username)
		return
	}

	admin := &domain.User{
		Username:     *username,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		appLogger.Fatal("Failed to create admin user", "error", err)
	}

	appLogger.Info("Admin user has been created", "username", *username)
}
