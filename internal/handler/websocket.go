package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chat_console/internal/middleware"
	"chat_console/internal/ws"
	"chat_console/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // В продакшене нужно проверять origin
	},
}

type WebSocketHandler struct {
	hub *ws.Hub
	log logger.Logger
}

func NewWebSocketHandler(hub *ws.Hub, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		log: log,
	}
}

// Live подписывает консоль на свежие сообщения видимых ей диалогов
func (h *WebSocketHandler) Live(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	// Блокируется до закрытия соединения
	h.hub.Register(conn, identity)
}
