package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chat_console/internal/middleware"
	"chat_console/internal/service"
	"chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

type ChatHandler struct {
	chatService service.ChatService
	log         logger.Logger
}

func NewChatHandler(chatService service.ChatService, log logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		log:         log,
	}
}

// List возвращает диалоги, видимые вызывающему
func (h *ChatHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chats, err := h.chatService.List(c.Request.Context(), identity)
	if err != nil {
		h.log.Error("Failed to list chats", "error", err, "user_id", identity.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
		return
	}

	c.JSON(http.StatusOK, chats)
}

type ToggleAIRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ToggleAI явно выставляет флаг автоматизации диалога
func (h *ChatHandler) ToggleAI(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req ToggleAIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	chatID := c.Param("id")
	if err := h.chatService.SetAutomation(c.Request.Context(), identity, chatID, *req.Enabled); err != nil {
		status := errors.HTTPStatusFromError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "ai_enabled": *req.Enabled})
}
