// Package server exposes the ad pipeline over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kayz/adcraft/internal/ad"
	"github.com/kayz/adcraft/internal/logger"
)

const maxBodyBytes = 1 << 20

const invalidPromptMessage = "Prompt must be a non-empty string."

// AdGenerator produces an ad from a free-text request.
type AdGenerator interface {
	Generate(ctx context.Context, rawPrompt string) (ad.Generated, error)
}

type Server struct {
	generator AdGenerator
	log       logger.Logger
	provider  string
	validate  *validator.Validate
	startedAt time.Time
}

type Option func(*Server)

// WithLogger sets the logger used for request and error logs.
func WithLogger(log logger.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithProvider names the text provider reported by /api/status.
func WithProvider(name string) Option {
	return func(s *Server) {
		s.provider = name
	}
}

func NewServer(generator AdGenerator, opts ...Option) *Server {
	s := &Server{
		generator: generator,
		log:       logger.Nop(),
		validate:  validator.New(),
		startedAt: time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID, s.requestLogger, s.recoverer)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found.")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/status", s.handleStatus)
		api.Post("/ads", s.handleGenerateAd)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateAdRequest struct {
	Prompt string `json:"prompt" validate:"required"`
}

type generateAdResponse struct {
	Ad ad.Generated `json:"ad"`
}

func (s *Server) handleGenerateAd(w http.ResponseWriter, r *http.Request) {
	reqID := requestIDFrom(r.Context())

	var req generateAdRequest
	if err := s.decodeRequest(r, &req); err != nil {
		s.log.Warn("[HTTP] Prompt validation failed (request_id=%s): %v", reqID, err)
		writeError(w, http.StatusBadRequest, invalidPromptMessage)
		return
	}
	s.log.Info("[HTTP] Received ad generation request (request_id=%s): %q", reqID, req.Prompt)

	generated, err := s.generator.Generate(r.Context(), req.Prompt)
	if err != nil {
		status, message := publicErrorOf(err)
		s.log.Error("[HTTP] Error generating ad (request_id=%s, status=%d): %v", reqID, status, err)
		writeError(w, status, message)
		return
	}

	s.log.Info("[HTTP] Ad generated successfully (request_id=%s)", reqID)
	writeJSON(w, http.StatusOK, generateAdResponse{Ad: generated})
}

func (s *Server) decodeRequest(r *http.Request, dst *generateAdRequest) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty body")
		}
		return err
	}
	return s.validate.Struct(dst)
}
