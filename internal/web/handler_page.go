package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/smartrecycle/internal/domain"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "Hello,Flask!")
}

func (s *Server) handlePage(file, nav, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.renderPage(w,
			map[string]any{"Title": title, "ActiveNav": nav},
			"base.html", file,
		); err != nil {
			s.logger.Error("render page failed", "page", file, "error", err)
		}
	}
}

func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	reader, mimeType, err := s.images.Get(r.Context(), name)
	if err != nil {
		if errors.Is(err, domain.ErrImageNotFound) {
			http.NotFound(w, r)
			return
		}
		http.Error(w, "failed to load image", http.StatusInternalServerError)
		s.logger.Error("get image failed", "name", name, "error", err)
		return
	}
	defer closeWithLog(reader, "image reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write image failed", "name", name, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		s.logger.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"}, s.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}
