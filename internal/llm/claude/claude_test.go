package claude

import (
	"context"
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

func writeMessage(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"model":       "claude-3-5-sonnet-latest",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 10, "output_tokens": 5},
	})
}

func TestComplete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk-test", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeMessage(w, "  도자기는 불연성 마대에 버리세요.  ")
	}))
	defer server.Close()

	client := NewClient("sk-test", "claude-3-5-sonnet-latest", server.URL, time.Second)
	text, err := client.Complete(context.Background(), &llm.Request{System: "sys", Prompt: "도자기?"})
	require.NoError(t, err)
	assert.Equal(t, "도자기는 불연성 마대에 버리세요.", text)

	assert.Equal(t, "claude-3-5-sonnet-latest", got["model"])
	assert.Equal(t, "sys", got["system"])
	assert.EqualValues(t, llm.DefaultMaxTokens, got["max_tokens"])
}

func TestCompleteWithImage(t *testing.T) {
	var got struct {
		Messages []struct {
			Content []struct {
				Type   string `json:"type"`
				Text   string `json:"text"`
				Source *struct {
					Type      string `json:"type"`
					MediaType string `json:"media_type"`
					Data      string `json:"data"`
				} `json:"source"`
			} `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeMessage(w, "우산입니다.")
	}))
	defer server.Close()

	img := &llm.Image{MIMEType: "image/png", Data: []byte{0x89, 0x50, 0x4E, 0x47}}
	client := NewClient("sk-test", "claude-3-5-sonnet-latest", server.URL, time.Second)
	_, err := client.Complete(context.Background(), &llm.Request{Prompt: "무엇인가요?", Image: img})
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	content := got.Messages[0].Content
	require.Len(t, content, 2)
	assert.Equal(t, "image", content[0].Type)
	require.NotNil(t, content[0].Source)
	assert.Equal(t, "base64", content[0].Source.Type)
	assert.Equal(t, "image/png", content[0].Source.MediaType)
	assert.Equal(t, img.Base64(), content[0].Source.Data)
	assert.Equal(t, "text", content[1].Type)
	assert.Equal(t, "무엇인가요?", content[1].Text)
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := NewClient("sk-test", "claude-3-5-sonnet-latest", server.URL, time.Second).
		Complete(context.Background(), &llm.Request{Prompt: "x"})
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestNormaliseMIME(t *testing.T) {
	assert.Equal(t, "image/png", normaliseMIME("image/png"))
	assert.Equal(t, "image/webp", normaliseMIME("image/webp"))
	assert.Equal(t, "image/jpeg", normaliseMIME("image/bmp"))
}
