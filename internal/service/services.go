package service

import (
	"chat_console/internal/config"
	"chat_console/internal/gateway"
	"chat_console/internal/repository"
	"chat_console/pkg/logger"
)

type Services struct {
	Auth      AuthService
	Access    AccessService
	Chat      ChatService
	Message   MessageService
	Media     MediaService
	RateLimit RateLimitService
}

func NewServices(repos *repository.Repositories, gw gateway.Sender, broadcaster Broadcaster, cfg *config.Config, log logger.Logger) *Services {
	access := NewAccessService(repos.Chat, log)
	chats := NewChatService(repos.Chat, access, log)
	media := NewMediaService(cfg.Uploads, log)

	return &Services{
		Auth:      NewAuthService(repos.User, cfg.JWT, log),
		Access:    access,
		Chat:      chats,
		Message:   NewMessageService(repos.Message, repos.Chat, access, chats, media, gw, broadcaster, cfg.Gateway.MediaBaseURL, log),
		Media:     media,
		RateLimit: NewRateLimitService(repos.RateLimit, log),
	}
}
