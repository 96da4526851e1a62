package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/calc"
	"github.com/aretw0/minibot/pkg/domain"
	"github.com/aretw0/minibot/pkg/runner"
	"github.com/aretw0/minibot/pkg/session"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Text      string `json:"text"`
}

// ChatResponse is the body returned by POST /chat and streamed on /sessions/{id}/events.
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Source    string `json:"source"`
}

// EvaluateRequest is the body of POST /evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is returned for a successful evaluation.
type EvaluateResponse struct {
	Result    float64 `json:"result"`
	Formatted string  `json:"formatted"`
}

// EvaluateError is returned with 422 when the expression is rejected.
type EvaluateError struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// TaskList is the body of GET /sessions/{id}/tasks.
type TaskList struct {
	SessionID string   `json:"session_id"`
	Items     []string `json:"items"`
}

// SessionList is the body of GET /sessions.
type SessionList struct {
	Sessions []string `json:"sessions"`
}

// Server serves the chat API over a session Manager.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	evaluator *minibot.Bot
	metrics   http.Handler
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	spec      *openapi3.T
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetricsHandler mounts h on GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithLifecycleHooks reports POST /evaluate calls to hooks.
// Chat hooks are configured on the session Manager's bots.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Server) {
		s.hooks = hooks
	}
}

// NewServer validates the embedded OpenAPI document and builds a Server.
func NewServer(ctx context.Context, sessions *session.Manager, opts ...Option) (*Server, error) {
	s := &Server{
		Sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	spec, err := LoadSpec(ctx)
	if err != nil {
		return nil, err
	}
	s.spec = spec
	s.Streams = NewStreamManager(s.logger)
	s.evaluator = minibot.New(minibot.WithLifecycleHooks(s.hooks), minibot.WithLogger(s.logger))
	return s, nil
}

// Router returns the chi router with every route mounted.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Post("/chat", s.Chat)
	r.Post("/evaluate", s.Evaluate)
	r.Get("/sessions", s.ListSessions)
	r.Route("/sessions/{id}", func(r chi.Router) {
		r.Delete("/", s.DeleteSession)
		r.Get("/tasks", s.ListTasks)
		r.Delete("/tasks", s.ClearTasks)
		r.Get("/events", s.SubscribeEvents)
	})
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}
	return r
}

// Handler returns the router wrapped with CORS headers.
func (s *Server) Handler() http.Handler {
	return enableCORS(s.Router())
}

// NewHandler is a shortcut for NewServer followed by Handler.
func NewHandler(ctx context.Context, sessions *session.Manager, opts ...Option) (http.Handler, error) {
	s, err := NewServer(ctx, sessions, opts...)
	if err != nil {
		return nil, err
	}
	return s.Handler(), nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Chat handles the POST /chat request.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var body ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("Chat: Invalid request body", "err", err)
		return
	}

	// Sanitize Input (Global Policy)
	text, err := runner.SanitizeInput(body.Text)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		s.logger.Warn("Chat: Input rejected", "err", err, "size", len(body.Text))
		return
	}

	sessionID := strings.TrimSpace(body.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply, err := s.Sessions.Respond(r.Context(), sessionID, text)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Chat error: %v", err))
		s.logger.Error("Chat failed", "session_id", sessionID, "err", err)
		return
	}

	resp := ChatResponse{SessionID: sessionID, Reply: reply.Text, Source: reply.Source}
	if data, err := json.Marshal(resp); err == nil {
		s.Streams.Broadcast(sessionID, string(data))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Evaluate handles the POST /evaluate request.
func (s *Server) Evaluate(w http.ResponseWriter, r *http.Request) {
	var body EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("Evaluate: Invalid request body", "err", err)
		return
	}
	if len(body.Expression) > runner.MaxInputSize() {
		s.writeError(w, http.StatusBadRequest, runner.ErrInputTooLarge.Error())
		return
	}

	v, err := s.evaluator.Evaluate(r.Context(), body.Expression)
	if err != nil {
		s.writeJSON(w, http.StatusUnprocessableEntity, EvaluateError{
			Error: err.Error(),
			Kind:  calc.KindOf(err).String(),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, EvaluateResponse{Result: v, Formatted: calc.Format(v)})
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("List error: %v", err))
		s.logger.Error("ListSessions failed", "err", err)
		return
	}
	s.writeJSON(w, http.StatusOK, SessionList{Sessions: ids})
}

// ListTasks handles the GET /sessions/{id}/tasks request.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	items, err := s.Sessions.Tasks(r.Context(), sessionID)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("List error: %v", err))
		s.logger.Error("ListTasks failed", "session_id", sessionID, "err", err)
		return
	}
	if items == nil {
		items = []string{}
	}
	s.writeJSON(w, http.StatusOK, TaskList{SessionID: sessionID, Items: items})
}

// ClearTasks handles the DELETE /sessions/{id}/tasks request.
func (s *Server) ClearTasks(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if err := s.Sessions.ClearTasks(r.Context(), sessionID); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Clear error: %v", err))
		s.logger.Error("ClearTasks failed", "session_id", sessionID, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	err := s.Sessions.Delete(r.Context(), sessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case err != nil:
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("Delete error: %v", err))
		s.logger.Error("DeleteSession failed", "session_id", sessionID, "err", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// SubscribeEvents handles the GET /sessions/{id}/events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: Subscribing to Session Updates", "session_id", sessionID)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE Client Disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if s.spec != nil && s.spec.Info != nil {
		apiVersion = s.spec.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "minibot-http",
		"version":     strings.TrimSpace(minibot.Version),
		"api_version": apiVersion,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
