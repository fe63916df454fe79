package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vbonduro/smartrecycle/internal/config"
	"github.com/vbonduro/smartrecycle/internal/geocode"
	"github.com/vbonduro/smartrecycle/internal/imagestore/local"
	"github.com/vbonduro/smartrecycle/internal/llm"
	"github.com/vbonduro/smartrecycle/internal/llm/claude"
	"github.com/vbonduro/smartrecycle/internal/llm/gemini"
	"github.com/vbonduro/smartrecycle/internal/llm/ollama"
	"github.com/vbonduro/smartrecycle/internal/llm/openai"
	"github.com/vbonduro/smartrecycle/internal/search"
	"github.com/vbonduro/smartrecycle/internal/service"
	"github.com/vbonduro/smartrecycle/internal/store"
	"github.com/vbonduro/smartrecycle/internal/web"
	"github.com/vbonduro/smartrecycle/internal/web/static"
	"github.com/vbonduro/smartrecycle/internal/web/templates"
)

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.ListenAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			database, _, err := openSeeded(ctx)
			if err != nil {
				return err
			}
			defer closeDB(database)

			model, err := newChatModel(ctx, cfg)
			if err != nil {
				return err
			}

			var searcher *search.GoogleClient
			if cfg.SearchEnabled() {
				searcher = search.NewGoogleClient(cfg.SearchAPIKey, cfg.SearchCX, cfg.SearchURL, cfg.HTTPTimeout)
				logger.Info("web search enabled", "results", cfg.SearchResults)
			} else {
				logger.Info("web search disabled, GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX not set")
			}

			recycle := service.NewRecycleService(store.NewDistrictStore(database), store.NewGuideStore(database), logger)
			geocoder := geocode.NewClient(cfg.NominatimURL, cfg.NominatimUserAgent, cfg.HTTPTimeout)

			server := web.NewServer(
				web.Services{
					Recycle:  recycle,
					Chat:     service.NewChatService(model, searcher, recycle, cfg.SearchResults, logger),
					Location: service.NewLocationService(geocoder, recycle, logger),
				},
				local.NewLocalImageStore(cfg.ImagePath),
				database,
				templates.FS,
				static.FS,
				logger,
			)
			return server.ListenAndServe(ctx, cfg.ListenAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LISTEN_ADDR)")
	return cmd
}

func newChatModel(ctx context.Context, cfg *config.Config) (llm.ChatModel, error) {
	switch cfg.LLMBackend {
	case "claude":
		if cfg.ClaudeAPIKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required when LLM_BACKEND=claude")
		}
		logger.Info("using Claude chat backend", "model", cfg.ClaudeModel)
		return claude.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel, "", cfg.HTTPTimeout), nil
	case "gemini":
		logger.Info("using Gemini chat backend", "model", cfg.GeminiModel)
		m, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, "", cfg.HTTPTimeout)
		if err != nil {
			return nil, err
		}
		return m, nil
	case "ollama":
		logger.Info("using Ollama chat backend", "host", cfg.OllamaHost, "model", cfg.OllamaModel)
		return ollama.NewClient(cfg.OllamaHost, cfg.OllamaModel, cfg.HTTPTimeout), nil
	case "openai", "":
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_BACKEND=openai")
		}
		logger.Info("using OpenAI chat backend", "model", cfg.OpenAIModel)
		return openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.HTTPTimeout), nil
	default:
		return nil, fmt.Errorf("unknown LLM_BACKEND %q (want openai, claude, gemini or ollama)", cfg.LLMBackend)
	}
}
