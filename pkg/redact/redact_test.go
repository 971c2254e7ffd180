package redact

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"integer amount", "price is $100", "price is $***"},
		{"decimal amount", "$100.00 special", "$*** special"},
		{"multiple amounts", "$5 now, $10.50 later", "$*** now, $*** later"},
		{"no amount", "no prices here", "no prices here"},
		{"bare dollar sign", "costs $ nothing", "costs $ nothing"},
		{"one decimal digit keeps trailing digit", "$10.5", "$***.5"},
		{"empty string", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, String(tt.input))
		})
	}
}

func TestValueNestedStructure(t *testing.T) {
	var payload any
	raw := `{
		"price": "$100.00 special",
		"count": 42,
		"active": true,
		"note": null,
		"items": ["$5 off", {"deep": "pay $9.99"}],
		"meta": {"label": "plain"}
	}`
	require.NoError(t, json.Unmarshal([]byte(raw), &payload))

	got := Value(payload).(map[string]any)

	assert.Equal(t, "$*** special", got["price"])
	assert.Equal(t, float64(42), got["count"])
	assert.Equal(t, true, got["active"])
	assert.Nil(t, got["note"])

	items := got["items"].([]any)
	assert.Equal(t, "$*** off", items[0])
	assert.Equal(t, "pay $***", items[1].(map[string]any)["deep"])
	assert.Equal(t, "plain", got["meta"].(map[string]any)["label"])
}

func TestValueScalars(t *testing.T) {
	assert.Nil(t, Value(nil))
	assert.Equal(t, float64(7), Value(float64(7)))
	assert.Equal(t, "$***", Value("$12"))
}
