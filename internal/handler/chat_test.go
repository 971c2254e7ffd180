package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat_console/internal/domain"
	"chat_console/internal/middleware"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

type fakeChatService struct {
	chats       []*domain.Chat
	setErr      error
	lastChatID  string
	lastEnabled bool
}

func (s *fakeChatService) List(_ context.Context, _ domain.Identity) ([]*domain.Chat, error) {
	return s.chats, nil
}

func (s *fakeChatService) SetAutomation(_ context.Context, _ domain.Identity, chatID string, enabled bool) error {
	s.lastChatID = chatID
	s.lastEnabled = enabled
	return s.setErr
}

func (s *fakeChatService) DisableOnHumanMessage(_ context.Context, chatID string) error {
	s.lastChatID = chatID
	s.lastEnabled = false
	return nil
}

func newChatRouter(svc *fakeChatService, identity domain.Identity) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(middleware.IdentityKey, identity)
		c.Next()
	})

	h := NewChatHandler(svc, logger.New("error"))
	router.GET("/api/chats", h.List)
	router.PATCH("/api/chats/:id/ai", h.ToggleAI)
	return router
}

func TestToggleAI(t *testing.T) {
	svc := &fakeChatService{}
	router := newChatRouter(svc, bob)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/chats/5491122334455/ai", bytes.NewBufferString(`{"enabled":false}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, false, resp["ai_enabled"])

	assert.Equal(t, "5491122334455", svc.lastChatID)
	assert.False(t, svc.lastEnabled)
}

func TestToggleAIMissingFlagReturns400(t *testing.T) {
	svc := &fakeChatService{}
	router := newChatRouter(svc, bob)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/chats/5491122334455/ai", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToggleAIChatNotFound(t *testing.T) {
	svc := &fakeChatService{setErr: apperrors.ErrChatNotFound}
	router := newChatRouter(svc, domain.Identity{ID: 1, Username: "admin", Role: domain.RoleAdmin})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/chats/5491122334455/ai", bytes.NewBufferString(`{"enabled":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListChats(t *testing.T) {
	name := "Client"
	svc := &fakeChatService{chats: []*domain.Chat{{WhatsAppID: "5491122334455", AIEnabled: true, Name: &name}}}
	router := newChatRouter(svc, bob)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/chats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var chats []*domain.Chat
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &chats))
	require.Len(t, chats, 1)
	assert.Equal(t, "5491122334455", chats[0].WhatsAppID)
	assert.True(t, chats[0].AIEnabled)
}
