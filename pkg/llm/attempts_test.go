package llm

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/assert/v2"
)

func captureLog(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestAnthropicLogsEveryAttempt(t *testing.T) {
	logs := captureLog(t)

	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Should-Retry", "true")
			w.Header().Set("Retry-After-Ms", "10")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"overloaded"}}`))
			return
		}
		writeJSON(w, anthropicMessage([]map[string]interface{}{
			{
				"type":  "tool_use",
				"id":    "toolu_01",
				"name":  toolName,
				"input": map[string]interface{}{"has_goal": "Yes", "goal": "net-zero", "target_year": "2040"},
			},
		}))
	}))
	defer srv.Close()

	client := NewAnthropicClient(AnthropicConfig{
		APIKey:     "test-key",
		BaseURL:    srv.URL,
		Model:      "claude-haiku-4-5",
		MaxRetries: 1,
	})

	result, err := client.Extract(context.Background(), acmeInput())

	assert.Equal(t, nil, err)
	assert.Equal(t, "net-zero", result.Fields.Goal)
	assert.Equal(t, 2, calls)

	out := logs.String()
	assert.Equal(t, 2, strings.Count(out, `msg="llm api attempt"`))
	assert.Equal(t, true, strings.Contains(out, "status=500"))
	assert.Equal(t, true, strings.Contains(out, "status=200"))
	assert.Equal(t, false, strings.Contains(out, "test-key"))
}

func TestOpenAILogsAttempt(t *testing.T) {
	logs := captureLog(t)

	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, chatCompletion(`{"goal":"net-zero"}`))
	})

	_, err := client.Extract(context.Background(), acmeInput())

	assert.Equal(t, nil, err)
	out := logs.String()
	assert.Equal(t, 1, strings.Count(out, `msg="llm api attempt"`))
	assert.Equal(t, true, strings.Contains(out, "provider=openai"))
}
