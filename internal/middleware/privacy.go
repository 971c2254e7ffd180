package middleware

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gin-gonic/gin"

	"chat_console/internal/domain"
	"chat_console/pkg/logger"
	"chat_console/pkg/redact"
)

type maskWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *maskWriter) Write(b []byte) (int, error) {
	return w.body.Write(b)
}

func (w *maskWriter) WriteString(s string) (int, error) {
	return w.body.WriteString(s)
}

// Privacy маскирует денежные суммы в ответах для роли operator.
// Чистое пост-преобразование на транспортной границе: хранимое и
// пересылаемое в шлюз содержимое не затрагивается, только тело ответа.
func Privacy(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFromContext(c)
		if !ok || identity.Role != domain.RoleOperator {
			c.Next()
			return
		}

		writer := &maskWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = writer
		c.Next()
		c.Writer = writer.ResponseWriter

		raw := writer.body.Bytes()
		if len(raw) == 0 {
			return
		}

		contentType := writer.Header().Get("Content-Type")
		if !strings.HasPrefix(contentType, "application/json") {
			writer.ResponseWriter.Write(raw)
			return
		}

		var payload any
		if err := json.Unmarshal(raw, &payload); err != nil {
			log.Warn("Privacy filter got non-JSON body, passing through", "error", err)
			writer.ResponseWriter.Write(raw)
			return
		}

		masked, err := json.Marshal(redact.Value(payload))
		if err != nil {
			log.Error("Failed to marshal masked response", "error", err)
			writer.ResponseWriter.Write(raw)
			return
		}

		writer.ResponseWriter.Write(masked)
	}
}
