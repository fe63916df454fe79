// Package search queries Google Custom Search and turns the results into a
// plain-text context block for the chat prompt.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

// maxResults is the largest page size the Custom Search JSON API accepts.
const maxResults = 10

type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

type response struct {
	Items []struct {
		Title       string `json:"title"`
		Link        string `json:"link"`
		Snippet     string `json:"snippet"`
		HTMLSnippet string `json:"htmlSnippet"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type GoogleClient struct {
	apiKey  string
	cx      string
	baseURL string
	client  *http.Client
}

func NewGoogleClient(apiKey, cx, baseURL string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		apiKey:  apiKey,
		cx:      cx,
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *GoogleClient) Enabled() bool {
	return c != nil && c.apiKey != "" && c.cx != ""
}

// Search returns up to n results for query. n is clamped to [1, 10].
func (c *GoogleClient) Search(ctx context.Context, query string, n int) ([]Result, error) {
	if !c.Enabled() {
		return nil, domain.ErrSearchDisabled
	}
	n = min(max(n, 1), maxResults)

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("cx", c.cx)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(n))
	q.Set("hl", "ko")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call custom search: %w: %w", err, domain.ErrUpstream)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close search response body", "error", err)
		}
	}()

	var body response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2<<20)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode search response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if body.Error != nil {
			msg = body.Error.Message
		}
		return nil, fmt.Errorf("custom search returned status %d: %s: %w", resp.StatusCode, msg, domain.ErrUpstream)
	}

	results := make([]Result, 0, len(body.Items))
	for _, it := range body.Items {
		snippet := it.Snippet
		if it.HTMLSnippet != "" {
			if text, err := TextFromHTML(it.HTMLSnippet); err == nil && text != "" {
				snippet = text
			}
		}
		results = append(results, Result{
			Title:   collapseSpace(it.Title),
			Link:    it.Link,
			Snippet: collapseSpace(snippet),
		})
	}
	return results, nil
}

// BuildContext numbers the results into the block injected into the prompt.
// It returns "" for no results.
func BuildContext(results []Result) string {
	if len(results) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range results {
		fmt.Fprintf(&sb, "[%d] %s\n", i+1, r.Title)
		if r.Snippet != "" {
			sb.WriteString(r.Snippet)
			sb.WriteByte('\n')
		}
		if r.Link != "" {
			fmt.Fprintf(&sb, "출처: %s\n", r.Link)
		}
		if i < len(results)-1 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
