// Package llm defines the provider-neutral chat completion interface used by
// the chatbot endpoints, plus the prompts and image helpers they share.
package llm

import "context"

// DefaultMaxTokens bounds a single answer. Recycling instructions for one
// object rarely exceed a few hundred tokens.
const DefaultMaxTokens = 1024

type ChatModel interface {
	Complete(ctx context.Context, req *Request) (string, error)
}

type Request struct {
	System    string
	Prompt    string
	Image     *Image
	MaxTokens int
}

// Tokens returns MaxTokens or DefaultMaxTokens when unset.
func (r *Request) Tokens() int {
	if r.MaxTokens > 0 {
		return r.MaxTokens
	}
	return DefaultMaxTokens
}

type Image struct {
	MIMEType string
	Data     []byte
}
