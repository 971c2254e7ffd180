package handler

import (
	"chat_console/internal/config"
	"chat_console/internal/service"
	"chat_console/internal/ws"
	"chat_console/pkg/logger"
)

type Handlers struct {
	Health    *HealthHandler
	Auth      *AuthHandler
	Chat      *ChatHandler
	Message   *MessageHandler
	Webhook   *WebhookHandler
	WebSocket *WebSocketHandler
}

func NewHandlers(services *service.Services, hub *ws.Hub, cfg *config.Config, log logger.Logger) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(),
		Auth:      NewAuthHandler(services.Auth, log),
		Chat:      NewChatHandler(services.Chat, log),
		Message:   NewMessageHandler(services.Message, log),
		Webhook:   NewWebhookHandler(services.Message, cfg.Gateway.APIKey, log),
		WebSocket: NewWebSocketHandler(hub, log),
	}
}
