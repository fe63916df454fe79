package web

import (
	"context"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vbonduro/smartrecycle/internal/imagestore"
	"github.com/vbonduro/smartrecycle/internal/service"
)

// Services groups the application services the HTTP layer depends on.
type Services struct {
	Recycle  *service.RecycleService
	Chat     *service.ChatService
	Location *service.LocationService
}

// pinger is satisfied by *sql.DB.
type pinger interface {
	PingContext(ctx context.Context) error
}

type Server struct {
	services  Services
	images    imagestore.ImageStore
	db        pinger
	templates fs.FS
	assets    fs.FS
	mux       *http.ServeMux
	logger    *slog.Logger
}

func NewServer(svc Services, images imagestore.ImageStore, db pinger, tmpl, assets fs.FS, logger *slog.Logger) *Server {
	s := &Server{
		services:  svc,
		images:    images,
		db:        db,
		templates: tmpl,
		assets:    assets,
		mux:       http.NewServeMux(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /home", s.handlePage("home.html", "home", "Flask 템플릿 연결"))
	s.mux.HandleFunc("GET /hw1", s.handlePage("hw1.html", "hw1", "스마트 분리수거 안내"))
	s.mux.HandleFunc("GET /final", s.handlePage("final.html", "final", "스마트 분리수거 챗봇"))

	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(s.assets)))
	s.mux.HandleFunc("GET /static/images/{name}", s.handleGetImage)

	s.mux.HandleFunc("POST /reverse-geocode", s.handleReverseGeocode)
	s.mux.HandleFunc("POST /get-recycle-info", s.handleGetRecycleInfo)
	s.mux.HandleFunc("POST /chatbot-analyze-image", s.handleAnalyzeImage)
	s.mux.HandleFunc("POST /chatbot-unified-chat", s.handleUnifiedChat)

	s.mux.HandleFunc("GET /api/guide", s.handleGuide)
	s.mux.HandleFunc("GET /api/districts", s.handleDistricts)
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
}

// securityHeaders adds defensive HTTP response headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "geolocation=(self), camera=(self)")
		h.Set("Content-Security-Policy",
			"default-src 'self'; "+
				"script-src 'self' 'unsafe-inline' https://cdn.tailwindcss.com; "+
				"style-src 'self' 'unsafe-inline'; "+
				"img-src 'self' data: blob:; "+
				"connect-src 'self'")
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

const requestIDHeader = "X-Request-ID"

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"request_id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, securityHeaders(s.mux)).ServeHTTP(w, r)
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// renderPage parses and executes a full-page template set.
func (s *Server) renderPage(w http.ResponseWriter, data any, files ...string) error {
	tmpl, err := template.New("").ParseFS(s.templates, files...)
	if err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}
