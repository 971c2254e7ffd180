package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat_console/internal/config"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

type capturedRequest struct {
	path   string
	apiKey string
	body   map[string]any
}

func newTestClient(t *testing.T, status int, captured *capturedRequest) (*Client, *httptest.Server) {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("apikey")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(config.GatewayConfig{
		BaseURL:      srv.URL,
		APIKey:       "test-key",
		InstanceName: "main",
		Timeout:      2 * time.Second,
	}, logger.New("error"))

	return client, srv
}

func TestSendText(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, http.StatusOK, &captured)

	err := client.SendText(context.Background(), "5491122334455", "Hello")
	require.NoError(t, err)

	assert.Equal(t, "/message/sendText/main", captured.path)
	assert.Equal(t, "test-key", captured.apiKey)
	assert.Equal(t, "5491122334455", captured.body["number"])
	assert.Equal(t, "Hello", captured.body["textMessage"].(map[string]any)["text"])

	options := captured.body["options"].(map[string]any)
	assert.Equal(t, float64(1200), options["delay"])
	assert.Equal(t, "composing", options["presence"])
}

func TestSendMedia(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, http.StatusCreated, &captured)

	err := client.SendMedia(context.Background(), "5491122334455", "image", "look", "http://backend:3001/uploads/a.png")
	require.NoError(t, err)

	assert.Equal(t, "/message/sendMedia/main", captured.path)
	media := captured.body["mediaMessage"].(map[string]any)
	assert.Equal(t, "image", media["mediatype"])
	assert.Equal(t, "look", media["caption"])
	assert.Equal(t, "http://backend:3001/uploads/a.png", media["media"])
}

func TestSendAudio(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, http.StatusOK, &captured)

	err := client.SendAudio(context.Background(), "5491122334455", "http://backend:3001/uploads/v.ogg")
	require.NoError(t, err)

	assert.Equal(t, "/message/sendWhatsAppAudio/main", captured.path)
	audio := captured.body["audioMessage"].(map[string]any)
	assert.Equal(t, "http://backend:3001/uploads/v.ogg", audio["audio"])
}

func TestNon2xxIsGatewayError(t *testing.T) {
	var captured capturedRequest
	client, _ := newTestClient(t, http.StatusBadGateway, &captured)

	err := client.SendText(context.Background(), "5491122334455", "Hello")
	assert.ErrorIs(t, err, apperrors.ErrGateway)
}

func TestUnreachableGatewayIsGatewayError(t *testing.T) {
	var captured capturedRequest
	client, srv := newTestClient(t, http.StatusOK, &captured)
	srv.Close()

	err := client.SendText(context.Background(), "5491122334455", "Hello")
	assert.ErrorIs(t, err, apperrors.ErrGateway)
}
