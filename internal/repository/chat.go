package repository

import (
	"context"
	"errors"

	"chat_console/internal/domain"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChatRepository interface {
	GetByID(ctx context.Context, whatsappID string) (*domain.Chat, error)
	ListAll(ctx context.Context) ([]*domain.Chat, error)
	ListAssignedTo(ctx context.Context, userID int64) ([]*domain.Chat, error)
	// Ensure создает диалог при первом упоминании внешнего идентификатора.
	Ensure(ctx context.Context, whatsappID string) (*domain.Chat, error)
	SetAIEnabled(ctx context.Context, whatsappID string, enabled bool) error
	SetAssignedUser(ctx context.Context, whatsappID string, userID *int64) error
}

type chatRepository struct {
	db  *pgxpool.Pool
	log logger.Logger
}

func NewChatRepository(db *pgxpool.Pool, log logger.Logger) ChatRepository {
	return &chatRepository{db: db, log: log}
}

func (r *chatRepository) GetByID(ctx context.Context, whatsappID string) (*domain.Chat, error) {
	query := `
		SELECT whatsapp_id, assigned_user_id, ai_enabled, name
		FROM chats
		WHERE whatsapp_id = $1
	`

	chat := &domain.Chat{}
	err := r.db.QueryRow(ctx, query, whatsappID).Scan(
		&chat.WhatsAppID, &chat.AssignedUserID, &chat.AIEnabled, &chat.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrChatNotFound
		}
		r.log.Error("Failed to get chat", "error", err, "chat_id", whatsappID)
		return nil, err
	}

	return chat, nil
}

func (r *chatRepository) ListAll(ctx context.Context) ([]*domain.Chat, error) {
	query := `
		SELECT whatsapp_id, assigned_user_id, ai_enabled, name
		FROM chats
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list chats", "error", err)
		return nil, err
	}
	defer rows.Close()

	return scanChats(rows)
}

func (r *chatRepository) ListAssignedTo(ctx context.Context, userID int64) ([]*domain.Chat, error) {
	query := `
		SELECT whatsapp_id, assigned_user_id, ai_enabled, name
		FROM chats
		WHERE assigned_user_id = $1
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		r.log.Error("Failed to list assigned chats", "error", err, "user_id", userID)
		return nil, err
	}
	defer rows.Close()

	return scanChats(rows)
}

func (r *chatRepository) Ensure(ctx context.Context, whatsappID string) (*domain.Chat, error) {
	query := `
		INSERT INTO chats (whatsapp_id)
		VALUES ($1)
		ON CONFLICT (whatsapp_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, whatsappID); err != nil {
		r.log.Error("Failed to ensure chat", "error", err, "chat_id", whatsappID)
		return nil, err
	}

	return r.GetByID(ctx, whatsappID)
}

func (r *chatRepository) SetAIEnabled(ctx context.Context, whatsappID string, enabled bool) error {
	query := `
		UPDATE chats
		SET ai_enabled = $2
		WHERE whatsapp_id = $1
	`

	tag, err := r.db.Exec(ctx, query, whatsappID, enabled)
	if err != nil {
		r.log.Error("Failed to set ai_enabled", "error", err, "chat_id", whatsappID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrChatNotFound
	}

	return nil
}

func (r *chatRepository) SetAssignedUser(ctx context.Context, whatsappID string, userID *int64) error {
	query := `
		UPDATE chats
		SET assigned_user_id = $2
		WHERE whatsapp_id = $1
	`

	tag, err := r.db.Exec(ctx, query, whatsappID, userID)
	if err != nil {
		r.log.Error("Failed to set assigned user", "error", err, "chat_id", whatsappID)
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrChatNotFound
	}

	return nil
}

func scanChats(rows pgx.Rows) ([]*domain.Chat, error) {
	var chats []*domain.Chat
	for rows.Next() {
		chat := &domain.Chat{}
		if err := rows.Scan(&chat.WhatsAppID, &chat.AssignedUserID, &chat.AIEnabled, &chat.Name); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}
