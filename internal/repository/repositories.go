package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"chat_console/pkg/logger"
)

type Repositories struct {
	User      UserRepository
	Chat      ChatRepository
	Message   MessageRepository
	RateLimit RateLimitRepository
}

func NewRepositories(db *pgxpool.Pool, redis *redis.Client, log logger.Logger) *Repositories {
	return &Repositories{
		User:      NewUserRepository(db, log),
		Chat:      NewChatRepository(db, log),
		Message:   NewMessageRepository(db, log),
		RateLimit: NewRateLimitRepository(redis, log),
	}
}
