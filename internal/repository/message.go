package repository

import (
	"context"
	"time"

	"chat_console/internal/domain"
	"chat_console/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	// ListByChat возвращает последние limit сообщений диалога
	// в порядке возрастания timestamp (старейшее из окна - первым).
	ListByChat(ctx context.Context, chatID string, limit int) ([]*domain.Message, error)
}

type messageRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewMessageRepository(db *pgxpool.Pool, log logger.Logger) MessageRepository {
	return &messageRepository{db: db, log: log}
}

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	query := `
		INSERT INTO messages (chat_id, sender_name, content, media_type, media_url, timestamp, user_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, timestamp
	`

	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now()
	}

	err := r.db.QueryRow(ctx, query,
		message.ChatID, message.SenderName, message.Content,
		message.MediaType, message.MediaURL, message.Timestamp, message.UserID,
	).Scan(&message.ID, &message.Timestamp)
	if err != nil {
		r.log.Error("Failed to create message", "error", err, "chat_id", message.ChatID)
		return err
	}

	return nil
}

func (r *messageRepository) ListByChat(ctx context.Context, chatID string, limit int) ([]*domain.Message, error) {
	// Берем limit самых свежих строк и разворачиваем окно в хронологический порядок
	query := `
		SELECT id, chat_id, sender_name, content, media_type, media_url, timestamp, user_id
		FROM (
			SELECT id, chat_id, sender_name, content, media_type, media_url, timestamp, user_id
			FROM messages
			WHERE chat_id = $1
			ORDER BY timestamp DESC, id DESC
			LIMIT $2
		) latest
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, chatID, limit)
	if err != nil {
		r.log.Error("Failed to list messages", "error", err, "chat_id", chatID)
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.Message
	for rows.Next() {
		message := &domain.Message{}
		err := rows.Scan(
			&message.ID, &message.ChatID, &message.SenderName, &message.Content,
			&message.MediaType, &message.MediaURL, &message.Timestamp, &message.UserID,
		)
		if err != nil {
			r.log.Error("Failed to scan message", "error", err)
			return nil, err
		}
		messages = append(messages, message)
	}

	return messages, rows.Err()
}
