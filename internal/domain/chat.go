package domain

import "time"

// Chat - диалог с внешним абонентом WhatsApp.
// Первичный ключ - стабильный внешний идентификатор (номер абонента).
type Chat struct {
	WhatsAppID     string  `json:"whatsapp_id"`
	AssignedUserID *int64  `json:"assigned_user_id,omitempty"`
	AIEnabled      bool    `json:"ai_enabled"`
	Name           *string `json:"name,omitempty"`
}

type Message struct {
	ID         int64     `json:"id"`
	ChatID     string    `json:"chat_id"`
	SenderName *string   `json:"sender_name,omitempty"`
	Content    string    `json:"content"`
	MediaType  *string   `json:"media_type,omitempty"`
	MediaURL   *string   `json:"media_url,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
	// UserID - автор сообщения. NULL означает внешнего абонента,
	// не NULL - сообщение отправлено оператором/админом из консоли.
	UserID *int64 `json:"user_id,omitempty"`
}

const (
	MediaTypeImage    = "image"
	MediaTypeAudio    = "audio"
	MediaTypeDocument = "document"
)
