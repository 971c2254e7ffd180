package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"chat_console/internal/domain"
	apperrors "chat_console/pkg/errors"
)

type fakeChatRepo struct {
	chats      map[string]*domain.Chat
	aiUpdates  []aiUpdate
	failEnsure bool
	failSetAI  bool
	ensuredNew []string
}

type aiUpdate struct {
	chatID  string
	enabled bool
}

func newFakeChatRepo(chats ...*domain.Chat) *fakeChatRepo {
	repo := &fakeChatRepo{chats: make(map[string]*domain.Chat)}
	for _, chat := range chats {
		repo.chats[chat.WhatsAppID] = chat
	}
	return repo
}

func (r *fakeChatRepo) GetByID(_ context.Context, whatsappID string) (*domain.Chat, error) {
	chat, ok := r.chats[whatsappID]
	if !ok {
		return nil, apperrors.ErrChatNotFound
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) ListAll(_ context.Context) ([]*domain.Chat, error) {
	return r.sorted(func(*domain.Chat) bool { return true }), nil
}

func (r *fakeChatRepo) ListAssignedTo(_ context.Context, userID int64) ([]*domain.Chat, error) {
	return r.sorted(func(chat *domain.Chat) bool {
		return chat.AssignedUserID != nil && *chat.AssignedUserID == userID
	}), nil
}

func (r *fakeChatRepo) Ensure(_ context.Context, whatsappID string) (*domain.Chat, error) {
	if r.failEnsure {
		return nil, fmt.Errorf("ensure failed")
	}
	if chat, ok := r.chats[whatsappID]; ok {
		copied := *chat
		return &copied, nil
	}
	chat := &domain.Chat{WhatsAppID: whatsappID, AIEnabled: true}
	r.chats[whatsappID] = chat
	r.ensuredNew = append(r.ensuredNew, whatsappID)
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) SetAIEnabled(_ context.Context, whatsappID string, enabled bool) error {
	if r.failSetAI {
		return fmt.Errorf("set ai failed")
	}
	chat, ok := r.chats[whatsappID]
	if !ok {
		return apperrors.ErrChatNotFound
	}
	chat.AIEnabled = enabled
	r.aiUpdates = append(r.aiUpdates, aiUpdate{chatID: whatsappID, enabled: enabled})
	return nil
}

func (r *fakeChatRepo) SetAssignedUser(_ context.Context, whatsappID string, userID *int64) error {
	chat, ok := r.chats[whatsappID]
	if !ok {
		return apperrors.ErrChatNotFound
	}
	chat.AssignedUserID = userID
	return nil
}

func (r *fakeChatRepo) sorted(keep func(*domain.Chat) bool) []*domain.Chat {
	var result []*domain.Chat
	for _, chat := range r.chats {
		if keep(chat) {
			copied := *chat
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WhatsAppID < result[j].WhatsAppID })
	return result
}

type fakeMessageRepo struct {
	messages []*domain.Message
	failNext bool
}

func (r *fakeMessageRepo) Create(_ context.Context, message *domain.Message) error {
	if r.failNext {
		return fmt.Errorf("insert failed")
	}
	message.ID = int64(len(r.messages) + 1)
	copied := *message
	r.messages = append(r.messages, &copied)
	return nil
}

func (r *fakeMessageRepo) ListByChat(_ context.Context, chatID string, limit int) ([]*domain.Message, error) {
	var result []*domain.Message
	for _, message := range r.messages {
		if message.ChatID == chatID {
			result = append(result, message)
		}
	}
	if len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

type fakeMedia struct {
	fail bool
}

func (m *fakeMedia) Store(_ context.Context, filename string, _ io.Reader) (string, error) {
	if m.fail {
		return "", fmt.Errorf("%w: disk full", apperrors.ErrStorage)
	}
	return "/uploads/generated-" + filename, nil
}

type gatewayCall struct {
	kind      string
	number    string
	text      string
	mediaType string
	caption   string
	mediaURL  string
}

type fakeGateway struct {
	calls []gatewayCall
	err   error
}

func (g *fakeGateway) SendText(_ context.Context, number, text string) error {
	g.calls = append(g.calls, gatewayCall{kind: "text", number: number, text: text})
	return g.err
}

func (g *fakeGateway) SendMedia(_ context.Context, number, mediaType, caption, mediaURL string) error {
	g.calls = append(g.calls, gatewayCall{kind: "media", number: number, mediaType: mediaType, caption: caption, mediaURL: mediaURL})
	return g.err
}

func (g *fakeGateway) SendAudio(_ context.Context, number, audioURL string) error {
	g.calls = append(g.calls, gatewayCall{kind: "audio", number: number, mediaURL: audioURL})
	return g.err
}
