package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"chat_console/internal/domain"
	"chat_console/internal/gateway"
	"chat_console/internal/repository"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

const defaultMessageLimit = 100

// Внешний идентификатор диалога - номер в международном формате
var chatIDPattern = regexp.MustCompile(`^[0-9]{5,20}$`)

// Attachment - единственное вложение исходящего сообщения
type Attachment struct {
	Filename string
	MimeType string
	Data     io.Reader
}

type SendInput struct {
	ChatID     string
	Content    string
	Attachment *Attachment
}

// Broadcaster доставляет только что записанное сообщение подключенным консолям
type Broadcaster interface {
	Publish(chat *domain.Chat, message *domain.Message)
}

// MessageService - конвейер отправки сообщения: авторизация, валидация,
// сохранение вложения, запись в БД, отключение автоматизации и best-effort
// пересылка во внешний шлюз.
type MessageService interface {
	List(ctx context.Context, identity domain.Identity, chatID string, limit int) ([]*domain.Message, error)
	Send(ctx context.Context, identity domain.Identity, input SendInput) (*domain.Message, error)
	// RecordInbound записывает входящее сообщение внешнего абонента,
	// создавая диалог при первом упоминании идентификатора.
	RecordInbound(ctx context.Context, input InboundInput) (*domain.Message, error)
}

type InboundInput struct {
	ChatID     string
	SenderName string
	Content    string
	MediaType  *string
	MediaURL   *string
}

type messageService struct {
	messageRepo  repository.MessageRepository
	chatRepo     repository.ChatRepository
	access       AccessService
	chats        ChatService
	media        MediaService
	gateway      gateway.Sender
	broadcaster  Broadcaster
	mediaBaseURL string
	log          logger.Logger
}

func NewMessageService(
	messageRepo repository.MessageRepository,
	chatRepo repository.ChatRepository,
	access AccessService,
	chats ChatService,
	media MediaService,
	gw gateway.Sender,
	broadcaster Broadcaster,
	mediaBaseURL string,
	log logger.Logger,
) MessageService {
	return &messageService{
		messageRepo:  messageRepo,
		chatRepo:     chatRepo,
		access:       access,
		chats:        chats,
		media:        media,
		gateway:      gw,
		broadcaster:  broadcaster,
		mediaBaseURL: strings.TrimSuffix(mediaBaseURL, "/"),
		log:          log,
	}
}

func (s *messageService) List(ctx context.Context, identity domain.Identity, chatID string, limit int) ([]*domain.Message, error) {
	if _, err := s.access.AuthorizeRead(ctx, identity, chatID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > defaultMessageLimit {
		limit = defaultMessageLimit
	}

	return s.messageRepo.ListByChat(ctx, chatID, limit)
}

func (s *messageService) Send(ctx context.Context, identity domain.Identity, input SendInput) (*domain.Message, error) {
	chatID := strings.TrimSpace(input.ChatID)
	if !chatIDPattern.MatchString(chatID) {
		return nil, fmt.Errorf("%w: invalid chat id", apperrors.ErrBadRequest)
	}

	content := strings.TrimSpace(input.Content)
	if content == "" && input.Attachment == nil {
		return nil, fmt.Errorf("%w: message text or attachment required", apperrors.ErrBadRequest)
	}

	// Авторизация. Admin может писать в еще не существующий диалог -
	// тот создается неявно при первом упоминании идентификатора.
	chat, err := s.access.AuthorizeWrite(ctx, identity, chatID)
	if err != nil {
		if errors.Is(err, apperrors.ErrChatNotFound) && identity.IsAdmin() {
			chat, err = s.chatRepo.Ensure(ctx, chatID)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
			}
		} else {
			return nil, err
		}
	}

	// Классификация и сохранение вложения. Ошибка хранилища фатальна:
	// сообщение в БД не создается.
	var mediaType, mediaURL *string
	if input.Attachment != nil {
		kind := mediaTypeFromMIME(input.Attachment.MimeType)
		locator, err := s.media.Store(ctx, input.Attachment.Filename, input.Attachment.Data)
		if err != nil {
			return nil, err
		}
		mediaType = &kind
		mediaURL = &locator
	}

	// Граница долговечности: после успешной записи запрос считается
	// выполненным, даже если пересылка в шлюз не удалась.
	senderName := identity.Username
	message := &domain.Message{
		ChatID:     chatID,
		SenderName: &senderName,
		Content:    content,
		MediaType:  mediaType,
		MediaURL:   mediaURL,
		Timestamp:  time.Now(),
		UserID:     &identity.ID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	// Человек вмешался - автоматизация гаснет до явного включения
	if err := s.chats.DisableOnHumanMessage(ctx, chatID); err != nil {
		s.log.Error("Automation not disabled after human message", "error", err, "chat_id", chatID)
	}

	s.forward(ctx, message, input.Attachment)

	if s.broadcaster != nil && chat != nil {
		s.broadcaster.Publish(chat, message)
	}

	return message, nil
}

func (s *messageService) RecordInbound(ctx context.Context, input InboundInput) (*domain.Message, error) {
	chatID := strings.TrimSpace(input.ChatID)
	if !chatIDPattern.MatchString(chatID) {
		return nil, fmt.Errorf("%w: invalid chat id", apperrors.ErrBadRequest)
	}

	chat, err := s.chatRepo.Ensure(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	var senderName *string
	if name := strings.TrimSpace(input.SenderName); name != "" {
		senderName = &name
	}

	message := &domain.Message{
		ChatID:     chatID,
		SenderName: senderName,
		Content:    strings.TrimSpace(input.Content),
		MediaType:  input.MediaType,
		MediaURL:   input.MediaURL,
		Timestamp:  time.Now(),
		UserID:     nil,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if s.broadcaster != nil {
		s.broadcaster.Publish(chat, message)
	}

	return message, nil
}

// forward пересылает сообщение во внешний шлюз. Любая ошибка логируется
// и не влияет на результат запроса: локальная запись диалога первична.
func (s *messageService) forward(ctx context.Context, message *domain.Message, attachment *Attachment) {
	var err error
	switch {
	case message.MediaType == nil:
		err = s.gateway.SendText(ctx, message.ChatID, message.Content)
	case *message.MediaType == domain.MediaTypeImage:
		err = s.gateway.SendMedia(ctx, message.ChatID, domain.MediaTypeImage, message.Content, s.externalMediaURL(message))
	case *message.MediaType == domain.MediaTypeAudio:
		err = s.gateway.SendAudio(ctx, message.ChatID, s.externalMediaURL(message))
	default:
		caption := message.Content
		if caption == "" && attachment != nil {
			caption = attachment.Filename
		}
		err = s.gateway.SendMedia(ctx, message.ChatID, domain.MediaTypeDocument, caption, s.externalMediaURL(message))
	}

	if err != nil {
		s.log.Error("Gateway forward failed", "error", err, "chat_id", message.ChatID, "message_id", message.ID)
	}
}

// externalMediaURL превращает относительный локатор в URL, достижимый шлюзом
func (s *messageService) externalMediaURL(message *domain.Message) string {
	if message.MediaURL == nil {
		return ""
	}
	return s.mediaBaseURL + *message.MediaURL
}

func mediaTypeFromMIME(mimeType string) string {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return domain.MediaTypeImage
	case strings.HasPrefix(mimeType, "audio/"):
		return domain.MediaTypeAudio
	default:
		return domain.MediaTypeDocument
	}
}
