package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"chat_console/internal/config"
	apperrors "chat_console/pkg/errors"
	"chat_console/pkg/logger"
)

// Sender - исходящий канал к WhatsApp-шлюзу (Evolution API).
// Все вызовы best-effort: диспетчер логирует ошибки, но не проваливает запрос.
type Sender interface {
	SendText(ctx context.Context, number, text string) error
	SendMedia(ctx context.Context, number, mediaType, caption, mediaURL string) error
	SendAudio(ctx context.Context, number, audioURL string) error
}

type Client struct {
	baseURL      string
	apiKey       string
	instanceName string
	httpClient   *http.Client
	log          logger.Logger
}

func NewClient(cfg config.GatewayConfig, log logger.Logger) *Client {
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		instanceName: cfg.InstanceName,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		log: log,
	}
}

type sendOptions struct {
	Delay    int    `json:"delay"`
	Presence string `json:"presence"`
}

// Шлюз ждет небольшую задержку и статус "печатает" перед отправкой
func defaultOptions() sendOptions {
	return sendOptions{Delay: 1200, Presence: "composing"}
}

type textMessage struct {
	Text string `json:"text"`
}

type mediaMessage struct {
	MediaType string `json:"mediatype"`
	Caption   string `json:"caption"`
	Media     string `json:"media"`
}

type audioMessage struct {
	Audio string `json:"audio"`
}

type textPayload struct {
	Number      string      `json:"number"`
	Options     sendOptions `json:"options"`
	TextMessage textMessage `json:"textMessage"`
}

type mediaPayload struct {
	Number       string       `json:"number"`
	Options      sendOptions  `json:"options"`
	MediaMessage mediaMessage `json:"mediaMessage"`
}

type audioPayload struct {
	Number       string       `json:"number"`
	Options      sendOptions  `json:"options"`
	AudioMessage audioMessage `json:"audioMessage"`
}

func (c *Client) SendText(ctx context.Context, number, text string) error {
	payload := textPayload{
		Number:      number,
		Options:     defaultOptions(),
		TextMessage: textMessage{Text: text},
	}
	return c.post(ctx, "sendText", payload)
}

func (c *Client) SendMedia(ctx context.Context, number, mediaType, caption, mediaURL string) error {
	payload := mediaPayload{
		Number:  number,
		Options: defaultOptions(),
		MediaMessage: mediaMessage{
			MediaType: mediaType,
			Caption:   caption,
			Media:     mediaURL,
		},
	}
	return c.post(ctx, "sendMedia", payload)
}

func (c *Client) SendAudio(ctx context.Context, number, audioURL string) error {
	payload := audioPayload{
		Number:       number,
		Options:      defaultOptions(),
		AudioMessage: audioMessage{Audio: audioURL},
	}
	return c.post(ctx, "sendWhatsAppAudio", payload)
}

func (c *Client) post(ctx context.Context, endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", apperrors.ErrGateway, err)
	}

	url := fmt.Sprintf("%s/message/%s/%s", c.baseURL, endpoint, c.instanceName)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", apperrors.ErrGateway, err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("apikey", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warn("Gateway returned non-2xx status",
			"status", resp.StatusCode, "endpoint", endpoint, "body", string(respBody))
		return fmt.Errorf("%w: unexpected status %d", apperrors.ErrGateway, resp.StatusCode)
	}

	return nil
}
