// Package api serves the workflow builder HTTP surface.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MalithGihan/flowgen-service/internal/config"
	"github.com/MalithGihan/flowgen-service/internal/ctxlog"
	"github.com/MalithGihan/flowgen-service/internal/generator"
)

const minDescriptionLen = 3

// Generator is the generation policy the handlers call.
type Generator interface {
	Generate(ctx context.Context, description string) (generator.Result, error)
	Enabled() bool
}

type Server struct {
	cfg     config.Config
	gen     Generator
	logger  *slog.Logger
	metrics http.Handler
}

func NewServer(cfg config.Config, gen Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, gen: gen, logger: logger}
}

// WithMetrics serves h on GET /metrics.
func (s *Server) WithMetrics(h http.Handler) *Server {
	s.metrics = h
	return s
}

// Routes builds the router with CORS, request ids, logging and recovery.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(recoverJSON)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/generate_workflow", s.handleGenerate)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	return r
}

type rootResp struct {
	Message   string  `json:"message"`
	AppName   string  `json:"app_name"`
	Version   string  `json:"version"`
	AIEnabled bool    `json:"ai_enabled"`
	AIModel   *string `json:"ai_model"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	out := rootResp{
		Message:   "Workflow Builder API is running",
		AppName:   s.cfg.AppName,
		Version:   s.cfg.AppVersion,
		AIEnabled: s.gen.Enabled(),
	}
	if out.AIEnabled {
		model := s.cfg.AI.Model
		out.AIModel = &model
	}
	writeJSON(w, http.StatusOK, out)
}

type healthResp struct {
	Status      string `json:"status"`
	AIAvailable bool   `json:"ai_available"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResp{Status: "healthy", AIAvailable: s.gen.Enabled()})
}

type generateReq struct {
	Description *string `json:"description"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return
	}
	if req.Description == nil {
		writeDetail(w, http.StatusUnprocessableEntity, "description is required")
		return
	}
	if utf8.RuneCountInString(*req.Description) < minDescriptionLen {
		writeDetail(w, http.StatusUnprocessableEntity,
			fmt.Sprintf("description must be at least %d characters", minDescriptionLen))
		return
	}

	res, err := s.gen.Generate(r.Context(), *req.Description)
	if err != nil {
		ctxlog.FromContext(r.Context()).Error("workflow generation failed", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Failed to generate workflow: "+err.Error())
		return
	}
	w.Header().Set("X-Workflow-Source", string(res.Source))
	writeJSON(w, http.StatusOK, res.Workflow)
}

type detailResp struct {
	Detail string `json:"detail"`
}

func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, detailResp{Detail: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// requestLogger stores a request-scoped logger in the context and logs one
// line per request.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := s.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctxlog.WithLogger(r.Context(), log)))
		log.Info("request", "status", ww.Status(), "bytes", ww.BytesWritten(), "duration", time.Since(start))
	})
}

// recoverJSON turns a handler panic into the same 500 body as any other
// generation failure.
func recoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				ctxlog.FromContext(r.Context()).Error("panic serving request", "panic", rec)
				writeDetail(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate workflow: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
