package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/smartrecycle/internal/domain"
	"github.com/vbonduro/smartrecycle/internal/service"
)

// maxBodyBytes bounds JSON request bodies; image data URLs dominate the size.
const maxBodyBytes = 10 << 20

var errBadRequest = errors.New("bad request")

type reverseGeocodeRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type recycleInfoRequest struct {
	City        string `json:"city"`
	DistrictKey string `json:"districtKey"`
}

type analyzeImageRequest struct {
	ImageDataURL string `json:"image_data_url"`
}

type unifiedChatRequest struct {
	Message      string `json:"message"`
	ImageDataURL string `json:"image_data_url"`
	Location     string `json:"location"`
	City         string `json:"city"`
	DistrictKey  string `json:"districtKey"`
}

type chatResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleReverseGeocode(w http.ResponseWriter, r *http.Request) {
	var req reverseGeocodeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		s.writeError(w, fmt.Errorf("latitude and longitude are required: %w", domain.ErrInvalidLocation))
		return
	}

	res, err := s.services.Location.ReverseGeocode(r.Context(), *req.Latitude, *req.Longitude)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res, s.logger)
}

func (s *Server) handleGetRecycleInfo(w http.ResponseWriter, r *http.Request) {
	var req recycleInfoRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	info, err := s.services.Recycle.GetRecycleInfo(r.Context(), req.City, req.DistrictKey)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, info, s.logger)
}

func (s *Server) handleAnalyzeImage(w http.ResponseWriter, r *http.Request) {
	var req analyzeImageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	answer, err := s.services.Chat.AnalyzeImage(r.Context(), req.ImageDataURL)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: answer}, s.logger)
}

func (s *Server) handleUnifiedChat(w http.ResponseWriter, r *http.Request) {
	var req unifiedChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	reply, err := s.services.Chat.UnifiedChat(r.Context(), service.ChatRequest{
		Message:      req.Message,
		ImageDataURL: req.ImageDataURL,
		Location:     req.Location,
		City:         req.City,
		DistrictKey:  req.DistrictKey,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply, s.logger)
}

func (s *Server) handleGuide(w http.ResponseWriter, r *http.Request) {
	guide, err := s.services.Recycle.SearchGuide(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guide, s.logger)
}

func (s *Server) handleDistricts(w http.ResponseWriter, r *http.Request) {
	districts, err := s.services.Recycle.Districts(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"districts": districts}, s.logger)
}

// decodeJSON reads a single JSON object from the request body.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("request body is empty: %w", errBadRequest)
		}
		return fmt.Errorf("invalid JSON body: %v: %w", err, errBadRequest)
	}
	return nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadRequest),
		errors.Is(err, domain.ErrInvalidImage),
		errors.Is(err, domain.ErrEmptyMessage),
		errors.Is(err, domain.ErrInvalidLocation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "status", status, "error", err)
		// Upstream messages are shown to the user; storage errors are not.
		if !errors.Is(err, domain.ErrUpstream) {
			msg = "internal server error"
		}
	}
	writeJSON(w, status, map[string]string{"error": msg}, s.logger)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response failed", "error", err)
	}
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
