package claude

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/llm"
)

type Client struct {
	client *anthropic.Client
	model  string
}

// NewClient builds a Claude chat model. baseURL may be empty to use the
// public API.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) *Client {
	opts := []anthropic.ClientOption{
		anthropic.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Client{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// buildMessage places the image block before the text, which is the order
// Anthropic recommends for vision prompts.
func buildMessage(req *llm.Request) anthropic.Message {
	var content []anthropic.MessageContent
	if req.Image != nil {
		content = append(content, anthropic.NewImageMessageContent(
			anthropic.NewMessageContentSource(
				anthropic.MessagesContentSourceTypeBase64,
				normaliseMIME(req.Image.MIMEType),
				req.Image.Base64(),
			),
		))
	}
	content = append(content, anthropic.NewTextMessageContent(req.Prompt))
	return anthropic.Message{Role: anthropic.RoleUser, Content: content}
}

func (c *Client) Complete(ctx context.Context, req *llm.Request) (string, error) {
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    req.System,
		Messages:  []anthropic.Message{buildMessage(req)},
		MaxTokens: req.Tokens(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to call claude: %w: %w", err, domain.ErrUpstream)
	}

	var sb strings.Builder
	for _, blk := range resp.Content {
		if blk.Type == anthropic.MessagesContentTypeText {
			sb.WriteString(blk.GetText())
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("claude returned no text: %w", domain.ErrUpstream)
	}
	return strings.TrimSpace(sb.String()), nil
}

// normaliseMIME maps MIME types to the values the Anthropic API accepts.
// Unknown types are coerced to jpeg.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
