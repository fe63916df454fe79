package ollama

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/llm"
)

func TestOllamaComplete(t *testing.T) {
	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":    got.Model,
			"response": "  페트병은 라벨을 떼고 배출하세요.\n",
			"done":     true,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", "llava", 5*time.Second)
	imageData := []byte{0xFF, 0xD8, 0xFF, 0xE0}

	answer, err := client.Complete(context.Background(), &llm.Request{
		System: llm.SystemPrompt,
		Prompt: "이거 어떻게 버려요?",
		Image:  &llm.Image{MIMEType: "image/jpeg", Data: imageData},
	})
	require.NoError(t, err)
	assert.Equal(t, "페트병은 라벨을 떼고 배출하세요.", answer)

	assert.Equal(t, "llava", got.Model)
	assert.Equal(t, llm.SystemPrompt, got.System)
	assert.False(t, got.Stream)
	assert.Equal(t, llm.DefaultMaxTokens, got.Options.NumPredict)
	require.Len(t, got.Images, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString(imageData), got.Images[0])
}

func TestOllamaCompleteTextOnly(t *testing.T) {
	var raw map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, _ = w.Write([]byte(`{"response":"ok"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "llama3", time.Second).Complete(context.Background(), &llm.Request{Prompt: "hi", MaxTokens: 64})
	require.NoError(t, err)
	assert.NotContains(t, raw, "images")
	assert.Equal(t, float64(64), raw["options"].(map[string]any)["num_predict"])
}

func TestOllamaErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model 'llava' not found"}`, http.StatusNotFound)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "llava", time.Second).Complete(context.Background(), &llm.Request{Prompt: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUpstream)
	assert.Contains(t, err.Error(), "not found")
}

func TestOllamaErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"out of memory"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, "llava", time.Second).Complete(context.Background(), &llm.Request{Prompt: "hi"})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
