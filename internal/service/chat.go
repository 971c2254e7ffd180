package service

import (
	"context"

	"chat_console/internal/domain"
	"chat_console/internal/repository"
	"chat_console/pkg/logger"
)

// ChatService - список диалогов и управление флагом автоматизации (AI).
type ChatService interface {
	List(ctx context.Context, identity domain.Identity) ([]*domain.Chat, error)
	// SetAutomation явно выставляет флаг в запрошенное значение. Идемпотентна.
	SetAutomation(ctx context.Context, identity domain.Identity, chatID string, enabled bool) error
	// DisableOnHumanMessage безусловно гасит автоматизацию после того, как
	// человек отправил сообщение в диалог. Вызывается диспетчером строго
	// после успешной записи сообщения. Обратного автоматического перехода нет.
	DisableOnHumanMessage(ctx context.Context, chatID string) error
}

type chatService struct {
	chatRepo repository.ChatRepository
	access   AccessService
	log      logger.Logger
}

func NewChatService(chatRepo repository.ChatRepository, access AccessService, log logger.Logger) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		access:   access,
		log:      log,
	}
}

func (s *chatService) List(ctx context.Context, identity domain.Identity) ([]*domain.Chat, error) {
	return s.access.ListVisible(ctx, identity)
}

func (s *chatService) SetAutomation(ctx context.Context, identity domain.Identity, chatID string, enabled bool) error {
	if _, err := s.access.AuthorizeWrite(ctx, identity, chatID); err != nil {
		return err
	}

	if err := s.chatRepo.SetAIEnabled(ctx, chatID, enabled); err != nil {
		return err
	}

	s.log.Info("Automation flag updated", "chat_id", chatID, "enabled", enabled, "user_id", identity.ID)
	return nil
}

func (s *chatService) DisableOnHumanMessage(ctx context.Context, chatID string) error {
	if err := s.chatRepo.SetAIEnabled(ctx, chatID, false); err != nil {
		s.log.Error("Failed to disable automation after human message", "error", err, "chat_id", chatID)
		return err
	}
	return nil
}
