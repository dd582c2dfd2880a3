package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"personabot-backend/internal/config"
	"personabot-backend/internal/llm"
	"personabot-backend/internal/metrics"
	"personabot-backend/internal/persona"
	"personabot-backend/internal/types"
)

// noReply is returned when the model produced only whitespace. An empty
// aggregate is a valid outcome, not a failure.
const noReply = "I don't have a reply for that right now. Could you rephrase?"

type Server struct {
	router  *chi.Mux
	backend llm.Client
	opts    llm.Options
	system  string
	cfg     config.Config
}

func New(cfg config.Config) (*Server, error) {
	spec, err := persona.Load(cfg.PersonaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load persona: %w", err)
	}

	var backend llm.Client
	switch cfg.Backend {
	case "openai":
		backend = llm.NewOpenAIClient(cfg.OpenAIAPIKey)
	case "ollama":
		backend = llm.NewOllamaClient(cfg.OllamaURL)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return newServer(cfg, backend, spec), nil
}

func newServer(cfg config.Config, backend llm.Client, spec persona.Spec) *Server {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}))

	// Generation parameters are fixed at startup: config defaults,
	// overridden by the persona spec's style where set.
	opts := llm.Options{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens}
	if spec.Style.Temperature > 0 {
		opts.Temperature = spec.Style.Temperature
	}
	if spec.Style.MaxTokens > 0 {
		opts.MaxTokens = spec.Style.MaxTokens
	}

	s := &Server{
		router:  r,
		backend: backend,
		opts:    opts,
		system:  spec.System,
		cfg:     cfg,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Get("/", s.handleRoot)
	s.router.Get("/api/health", s.handleHealth)
	s.router.Post("/api/chat", s.handleChat)
	s.router.Post("/api/chat/sync", s.handleChatSync)
	s.router.Handle("/metrics", promhttp.Handler())
}

func (s *Server) Router() http.Handler { return s.router }

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("personabot is up\n"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	s.serveChat(w, r, "stream", s.cfg.ChatTimeout, s.backend.Reply)
}

// handleChatSync is the non-streaming compatibility path, kept for
// debugging and as a fallback when the backend misbehaves on streams.
func (s *Server) handleChatSync(w http.ResponseWriter, r *http.Request) {
	s.serveChat(w, r, "sync", s.cfg.SyncTimeout, s.backend.ReplySync)
}

type backendCall func(ctx context.Context, model string, messages []llm.Message, opts llm.Options) (string, error)

func (s *Server) serveChat(w http.ResponseWriter, r *http.Request, mode string, timeout time.Duration, call backendCall) {
	start := time.Now()
	metrics.ActiveRequests.Inc()
	defer metrics.ActiveRequests.Dec()

	var req types.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.RequestsTotal.WithLabelValues("bad_request").Inc()
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		metrics.RequestsTotal.WithLabelValues("bad_request").Inc()
		s.writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: s.system},
		{Role: llm.RoleUser, Content: req.Message},
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeout)
	defer cancel()

	reply, err := call(ctx, s.cfg.Model, messages, s.opts)
	if err != nil {
		s.writeBackendError(w, mode, err)
		return
	}
	if reply == "" {
		reply = noReply
	}

	metrics.RequestsTotal.WithLabelValues("ok").Inc()
	metrics.RequestLatency.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(types.ChatResponse{Reply: reply})
}

// writeBackendError maps the llm error taxonomy onto the HTTP contract:
// 504 for timeouts, 502 for anything the backend did or failed to do,
// 500 for the unexpected.
func (s *Server) writeBackendError(w http.ResponseWriter, mode string, err error) {
	var backendErr *llm.BackendError
	switch {
	case errors.Is(err, llm.ErrTimeout):
		log.Printf("[chat] %s: backend timed out: %v", mode, err)
		metrics.RequestsTotal.WithLabelValues("timeout").Inc()
		s.writeError(w, http.StatusGatewayTimeout, "the model took too long to respond")
	case errors.As(err, &backendErr):
		log.Printf("[chat] %s: backend error: %v", mode, err)
		metrics.RequestsTotal.WithLabelValues("backend_error").Inc()
		s.writeError(w, http.StatusBadGateway, "the model server reported an error")
	case errors.Is(err, llm.ErrUnreachable):
		log.Printf("[chat] %s: backend unreachable: %v", mode, err)
		metrics.RequestsTotal.WithLabelValues("unreachable").Inc()
		s.writeError(w, http.StatusBadGateway, "the model server is unreachable")
	default:
		log.Printf("[chat] %s: unexpected error: %v", mode, err)
		metrics.RequestsTotal.WithLabelValues("internal_error").Inc()
		s.writeError(w, http.StatusInternalServerError, "unexpected error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}
