package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	ListenAddr string
	DBPath     string
	ImagePath  string
	LogLevel   string
	LogFile    string
	LogFormat  string

	LLMBackend    string
	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string
	ClaudeAPIKey  string
	ClaudeModel   string
	GeminiAPIKey  string
	GeminiModel   string
	OllamaHost    string
	OllamaModel   string

	SearchAPIKey  string
	SearchCX      string
	SearchURL     string
	SearchResults int

	NominatimURL       string
	NominatimUserAgent string

	HTTPTimeout time.Duration
}

func Load() *Config {
	return &Config{
		ListenAddr: getEnv("LISTEN_ADDR", ":5000"),
		DBPath:     getEnv("DB_PATH", "smart_recycle.db"),
		ImagePath:  getEnv("IMAGE_PATH", "static/images"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogFile:    getEnv("LOG_FILE", ""),
		LogFormat:  getEnv("LOG_FORMAT", "json"),

		LLMBackend:    getEnv("LLM_BACKEND", "openai"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		ClaudeAPIKey:  getEnv("CLAUDE_API_KEY", ""),
		ClaudeModel:   getEnv("CLAUDE_MODEL", "claude-3-5-sonnet-latest"),
		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaHost:    getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:   getEnv("OLLAMA_MODEL", "llava"),

		SearchAPIKey:  getEnv("GOOGLE_SEARCH_API_KEY", ""),
		SearchCX:      getEnv("GOOGLE_SEARCH_CX", ""),
		SearchURL:     getEnv("GOOGLE_SEARCH_URL", "https://www.googleapis.com/customsearch/v1"),
		SearchResults: getEnvInt("SEARCH_RESULTS", 3),

		NominatimURL:       getEnv("NOMINATIM_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: getEnv("NOMINATIM_USER_AGENT", "smart-recycle/1.0"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 30*time.Second),
	}
}

// SearchEnabled reports whether both Custom Search credentials are set.
func (c *Config) SearchEnabled() bool {
	return c.SearchAPIKey != "" && c.SearchCX != ""
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val, exists := os.LookupEnv(key)
	if !exists {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}
