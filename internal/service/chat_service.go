package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/llm"
	"github.com/vbonduro/smartrecycle/internal/search"
)

// webSearcher is the subset of search.GoogleClient that ChatService requires.
type webSearcher interface {
	Enabled() bool
	Search(ctx context.Context, query string, n int) ([]search.Result, error)
}

// scheduleFinder is the subset of RecycleService that ChatService requires.
type scheduleFinder interface {
	DistrictSchedule(ctx context.Context, city, districtKey string) (*LocationInfo, error)
}

type ChatRequest struct {
	Message      string
	ImageDataURL string
	Location     string
	City         string
	DistrictKey  string
}

type ChatReply struct {
	Response string          `json:"response"`
	Sources  []search.Result `json:"sources"`
}

type ChatService struct {
	model     llm.ChatModel
	searcher  webSearcher
	schedules scheduleFinder
	results   int
	logger    *slog.Logger
}

// NewChatService builds a ChatService. searcher may be nil, in which case
// answers are generated without web context.
func NewChatService(model llm.ChatModel, searcher webSearcher, schedules scheduleFinder, results int, logger *slog.Logger) *ChatService {
	return &ChatService{
		model:     model,
		searcher:  searcher,
		schedules: schedules,
		results:   results,
		logger:    logger,
	}
}

// AnalyzeImage identifies the object in a data URL image and explains how to
// dispose of it.
func (s *ChatService) AnalyzeImage(ctx context.Context, imageDataURL string) (string, error) {
	if strings.TrimSpace(imageDataURL) == "" {
		return "", fmt.Errorf("image data url is empty: %w", domain.ErrInvalidImage)
	}
	img, err := llm.ParseDataURL(imageDataURL)
	if err != nil {
		return "", err
	}

	s.logger.Info("analysing image", "mime_type", img.MIMEType, "bytes", len(img.Data))

	answer, err := s.model.Complete(ctx, &llm.Request{
		System: llm.SystemPrompt,
		Prompt: llm.ImageAnalysisPrompt,
		Image:  img,
	})
	if err != nil {
		return "", fmt.Errorf("image analysis failed: %w", err)
	}
	return answer, nil
}

// UnifiedChat answers a text question, a photo, or both. Web search results
// and the district schedule are added to the prompt when available; failing
// to fetch either does not fail the chat.
func (s *ChatService) UnifiedChat(ctx context.Context, req ChatRequest) (*ChatReply, error) {
	msg := strings.TrimSpace(req.Message)
	hasImage := strings.TrimSpace(req.ImageDataURL) != ""
	if msg == "" && !hasImage {
		return nil, domain.ErrEmptyMessage
	}

	var img *llm.Image
	if hasImage {
		var err error
		img, err = llm.ParseDataURL(req.ImageDataURL)
		if err != nil {
			return nil, err
		}
	}

	var (
		sources  []search.Result
		schedule *LocationInfo
	)
	g, gctx := errgroup.WithContext(ctx)
	if msg != "" && s.searcher != nil && s.searcher.Enabled() {
		g.Go(func() error {
			sources = s.search(gctx, searchQuery(req.Location, msg))
			return nil
		})
	}
	if s.schedules != nil && req.DistrictKey != "" {
		g.Go(func() error {
			loc, err := s.schedules.DistrictSchedule(gctx, req.City, req.DistrictKey)
			if err != nil {
				s.logger.Warn("district schedule lookup failed", "city", req.City, "district_key", req.DistrictKey, "error", err)
				return nil
			}
			schedule = loc
			return nil
		})
	}
	_ = g.Wait()

	in := llm.ChatPromptInput{
		Message:       msg,
		Location:      strings.TrimSpace(req.Location),
		SearchContext: search.BuildContext(sources),
		HasImage:      img != nil,
	}
	if schedule != nil {
		in.Schedule = schedule.Summary()
	}

	answer, err := s.model.Complete(ctx, &llm.Request{
		System: llm.SystemPrompt,
		Prompt: llm.BuildChatPrompt(in),
		Image:  img,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if sources == nil {
		sources = []search.Result{}
	}
	return &ChatReply{Response: answer, Sources: sources}, nil
}

func (s *ChatService) search(ctx context.Context, query string) []search.Result {
	results, err := s.searcher.Search(ctx, query, s.results)
	if err != nil {
		if errors.Is(err, domain.ErrSearchDisabled) {
			return nil
		}
		s.logger.Warn("web search failed, answering without context", "query", query, "error", err)
		return nil
	}
	s.logger.Debug("web search complete", "query", query, "results", len(results))
	return results
}

func searchQuery(location, message string) string {
	parts := make([]string, 0, 3)
	if loc := strings.TrimSpace(location); loc != "" {
		parts = append(parts, loc)
	}
	parts = append(parts, message, "분리수거 방법")
	return strings.Join(parts, " ")
}
