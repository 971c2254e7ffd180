package repository

import (
	"context"

	"chat_console/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema консоли: пользователи, диалоги и сообщения.
// Диалоги ключуются внешним WhatsApp-идентификатором.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(50) UNIQUE NOT NULL,
		password_hash VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL CHECK (role IN ('admin', 'operator'))
	)`,
	`CREATE TABLE IF NOT EXISTS chats (
		whatsapp_id VARCHAR(50) PRIMARY KEY,
		assigned_user_id INTEGER REFERENCES users(id),
		ai_enabled BOOLEAN DEFAULT TRUE,
		name VARCHAR(100)
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id SERIAL PRIMARY KEY,
		chat_id VARCHAR(50) REFERENCES chats(whatsapp_id),
		sender_name VARCHAR(100),
		content TEXT,
		media_type VARCHAR(50),
		media_url TEXT,
		timestamp TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		user_id INTEGER REFERENCES users(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_ts ON messages (chat_id, timestamp)`,
}

func InitSchema(ctx context.Context, db *pgxpool.Pool, log logger.Logger) error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			log.Error("Failed to apply schema statement", "error", err)
			return err
		}
	}

	log.Info("Database schema initialized")
	return nil
}
