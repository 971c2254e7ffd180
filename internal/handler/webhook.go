package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_console/internal/service"
	"chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

// WebhookHandler принимает входящие события шлюза: сообщения внешнего
// абонента. Диалог создается неявно при первом упоминании идентификатора.
type WebhookHandler struct {
	messageService service.MessageService
	apiKey         string
	log            logger.Logger
}

func NewWebhookHandler(messageService service.MessageService, apiKey string, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		messageService: messageService,
		apiKey:         apiKey,
		log:            log,
	}
}

type InboundMessageRequest struct {
	ChatID     string  `json:"chatId" binding:"required"`
	SenderName string  `json:"senderName"`
	Content    string  `json:"content"`
	MediaType  *string `json:"mediaType"`
	MediaURL   *string `json:"mediaUrl"`
}

func (h *WebhookHandler) InboundMessage(c *gin.Context) {
	// Вебхук защищен тем же API-ключом, что и исходящие вызовы шлюза
	key := c.GetHeader("apikey")
	if h.apiKey == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	var req InboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	message, err := h.messageService.RecordInbound(c.Request.Context(), service.InboundInput{
		ChatID:     req.ChatID,
		SenderName: req.SenderName,
		Content:    req.Content,
		MediaType:  req.MediaType,
		MediaURL:   req.MediaURL,
	})
	if err != nil {
		status := errors.HTTPStatusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Failed to record inbound message", "error", err, "chat_id", req.ChatID)
			c.JSON(status, gin.H{"error": "Server error"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, message)
}
