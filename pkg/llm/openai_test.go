package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func chatCompletion(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1767225600,
		"model":   "gpt-4o-mini",
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]interface{}{
					"role":    "assistant",
					"content": content,
				},
			},
		},
	}
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewOpenAIClient(OpenAIConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
}

func TestOpenAIExtract(t *testing.T) {
	var req map[string]interface{}

	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&req)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chatCompletion(
			`{"goal":"net-zero","target_year":"2040","baseline_year":"2020","scope":"1,2,3","source_urls":[]}`,
		))
	})

	result, err := client.Extract(context.Background(), acmeInput())

	assert.Equal(t, nil, err)
	assert.Equal(t, "net-zero", result.Fields.Goal)
	assert.Equal(t, "2040", result.Fields.TargetYear)
	assert.Equal(t, "2020", result.Fields.BaselineYear)
	assert.Equal(t, "1,2,3", result.Fields.Scope)
	assert.Equal(t, 0, len(result.Fields.SourceURLs))
	assert.Equal(t, "gpt-4o-mini", result.ModelUsed)

	format := req["response_format"].(map[string]interface{})
	assert.Equal(t, "json_schema", format["type"])
	schema := format["json_schema"].(map[string]interface{})
	assert.Equal(t, toolName, schema["name"])
}

func TestOpenAIExtractNoChoices(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		payload := chatCompletion("")
		payload["choices"] = []map[string]interface{}{}
		writeJSON(w, payload)
	})

	_, err := client.Extract(context.Background(), acmeInput())

	var extractErr *ExtractionError
	assert.Equal(t, true, errors.As(err, &extractErr))
	assert.Equal(t, "openai", extractErr.Provider)
	assert.Equal(t, "no response from openai", extractErr.Err.Error())
}
