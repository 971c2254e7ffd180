package service

import (
	"context"
	"errors"

	"chat_console/internal/domain"
	"chat_console/internal/repository"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

// AccessService - единственная точка принятия решений о доступе к диалогам.
// Правило одно для чтения и записи: admin видит все, operator - только
// диалоги, назначенные на него.
type AccessService interface {
	AuthorizeRead(ctx context.Context, identity domain.Identity, chatID string) (*domain.Chat, error)
	AuthorizeWrite(ctx context.Context, identity domain.Identity, chatID string) (*domain.Chat, error)
	ListVisible(ctx context.Context, identity domain.Identity) ([]*domain.Chat, error)
}

type accessService struct {
	chatRepo repository.ChatRepository
	log      logger.Logger
}

func NewAccessService(chatRepo repository.ChatRepository, log logger.Logger) AccessService {
	return &accessService{chatRepo: chatRepo, log: log}
}

func (s *accessService) AuthorizeRead(ctx context.Context, identity domain.Identity, chatID string) (*domain.Chat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, apperrors.ErrChatNotFound) {
			// Несуществующий диалог: admin получает 404, operator - 403,
			// чтобы не раскрывать оператору наличие чужих диалогов
			if identity.IsAdmin() {
				return nil, apperrors.ErrChatNotFound
			}
			return nil, apperrors.ErrForbidden
		}
		return nil, err
	}

	if identity.IsAdmin() {
		return chat, nil
	}

	if chat.AssignedUserID == nil || *chat.AssignedUserID != identity.ID {
		return nil, apperrors.ErrForbidden
	}

	return chat, nil
}

func (s *accessService) AuthorizeWrite(ctx context.Context, identity domain.Identity, chatID string) (*domain.Chat, error) {
	// Правило записи совпадает с правилом чтения
	return s.AuthorizeRead(ctx, identity, chatID)
}

func (s *accessService) ListVisible(ctx context.Context, identity domain.Identity) ([]*domain.Chat, error) {
	if identity.IsAdmin() {
		return s.chatRepo.ListAll(ctx)
	}
	return s.chatRepo.ListAssignedTo(ctx, identity.ID)
}
