package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"chat_console/internal/domain"
	"chat_console/internal/middleware"
	"chat_console/internal/service"
	"chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

type MessageHandler struct {
	messageService service.MessageService
	log            logger.Logger
}

func NewMessageHandler(messageService service.MessageService, log logger.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		log:            log,
	}
}

// List возвращает последние сообщения диалога в хронологическом порядке
func (h *MessageHandler) List(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	chatID := c.Param("chatId")
	messages, err := h.messageService.List(c.Request.Context(), identity, chatID, 100)
	if err != nil {
		status := errors.HTTPStatusFromError(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	if messages == nil {
		messages = []*domain.Message{}
	}

	c.JSON(http.StatusOK, messages)
}

type SendMessageRequest struct {
	ChatID  string `json:"chatId" binding:"required"`
	Content string `json:"content"`
}

// Send принимает либо JSON {chatId, content}, либо multipart-форму
// с полями chatId, content и единственным вложением file
func (h *MessageHandler) Send(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	input, err := h.parseSendInput(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if input.Attachment != nil {
		if closer, okClose := input.Attachment.Data.(interface{ Close() error }); okClose {
			defer closer.Close()
		}
	}

	message, err := h.messageService.Send(c.Request.Context(), identity, *input)
	if err != nil {
		status := errors.HTTPStatusFromError(err)
		if status == http.StatusInternalServerError {
			h.log.Error("Failed to send message", "error", err, "user_id", identity.ID)
			c.JSON(status, gin.H{"error": "Server error"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, message)
}

func (h *MessageHandler) parseSendInput(c *gin.Context) (*service.SendInput, error) {
	contentType := c.GetHeader("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		input := &service.SendInput{
			ChatID:  c.PostForm("chatId"),
			Content: c.PostForm("content"),
		}

		fileHeader, err := c.FormFile("file")
		if err == nil && fileHeader != nil {
			file, openErr := fileHeader.Open()
			if openErr != nil {
				return nil, openErr
			}
			input.Attachment = &service.Attachment{
				Filename: fileHeader.Filename,
				MimeType: fileHeader.Header.Get("Content-Type"),
				Data:     file,
			}
		}

		return input, nil
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return nil, err
	}

	return &service.SendInput{ChatID: req.ChatID, Content: req.Content}, nil
}
