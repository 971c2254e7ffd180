package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"chat_console/internal/domain"
	"chat_console/pkg/logger"
)

const writeTimeout = 5 * time.Second

// Event - кадр, уходящий в консоль оператора
type Event struct {
	Type    string          `json:"type"`
	Message *domain.Message `json:"message"`
}

type client struct {
	conn     *websocket.Conn
	identity domain.Identity
	mu       sync.Mutex
}

func (c *client) write(event Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(event)
}

// Hub рассылает свежезаписанные сообщения подключенным консолям.
// Видимость та же, что и у списка диалогов: admin получает все,
// operator - только сообщения назначенных ему диалогов.
type Hub struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	log     logger.Logger
}

func NewHub(log logger.Logger) *Hub {
	return &Hub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Register привязывает соединение к хабу и блокируется до его закрытия
func (h *Hub) Register(conn *websocket.Conn, identity domain.Identity) {
	c := &client{conn: conn, identity: identity}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()

	h.log.Debug("Console connected", "user_id", identity.ID, "username", identity.Username)

	// Входящие кадры не используются; читаем только ради обнаружения закрытия
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	h.log.Debug("Console disconnected", "user_id", identity.ID)
}

func (h *Hub) Publish(chat *domain.Chat, message *domain.Message) {
	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		if visibleTo(c.identity, chat) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	event := Event{Type: "message", Message: message}
	for _, c := range targets {
		if err := c.write(event); err != nil {
			h.log.Warn("Failed to push message to console", "error", err, "user_id", c.identity.ID)
			c.conn.Close()
		}
	}
}

func visibleTo(identity domain.Identity, chat *domain.Chat) bool {
	if identity.IsAdmin() {
		return true
	}
	return chat.AssignedUserID != nil && *chat.AssignedUserID == identity.ID
}
