package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/minibot"
	"github.com/aretw0/minibot/internal/logging"
	"github.com/aretw0/minibot/pkg/calc"
	"github.com/aretw0/minibot/pkg/runner"
	"github.com/aretw0/minibot/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"golang.org/x/sync/errgroup"
)

// IntentsURI is the resource listing the intent catalog.
const IntentsURI = "minibot://intents"

// ChatArgs are the arguments of the chat tool.
type ChatArgs struct {
	SessionID string `mapstructure:"session_id"`
	Text      string `mapstructure:"text"`
}

// ChatResult aligns with the HTTP ChatResponse.
type ChatResult struct {
	SessionID string `json:"session_id" jsonschema_description:"The session that answered"`
	Reply     string `json:"reply" jsonschema_description:"The bot reply"`
	Source    string `json:"source" jsonschema_description:"Intent name, or math, mood, faq, fallback"`
}

// EvaluateArgs are the arguments of the evaluate tool.
type EvaluateArgs struct {
	Expression string `mapstructure:"expression"`
}

// EvaluateResult is the outcome of the evaluate tool.
type EvaluateResult struct {
	Result    float64 `json:"result" jsonschema_description:"The numeric value"`
	Formatted string  `json:"formatted" jsonschema_description:"The value as the bot prints it"`
}

// TasksArgs are the arguments of the task tools.
type TasksArgs struct {
	SessionID string `mapstructure:"session_id"`
}

// TasksResult lists the task list of a session.
type TasksResult struct {
	SessionID string   `json:"session_id" jsonschema_description:"The session owning the list"`
	Items     []string `json:"items" jsonschema_description:"Tasks in insertion order"`
}

// IntentInfo describes one intent of the catalog resource, in match order.
type IntentInfo struct {
	Name     string   `json:"name"`
	Triggers []string `json:"triggers"`
}

// Server exposes a session Manager as an MCP Server.
type Server struct {
	sessions  *session.Manager
	evaluator *minibot.Bot
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithEvaluator replaces the Bot used by the evaluate tool and the intents resource.
func WithEvaluator(bot *minibot.Bot) Option {
	return func(s *Server) {
		s.evaluator = bot
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		sessions: sessions,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.evaluator == nil {
		s.evaluator = minibot.New(minibot.WithLogger(s.logger))
	}
	s.mcpServer = server.NewMCPServer("minibot-mcp", strings.TrimSpace(minibot.Version))
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: chat
	chatTool := mcp.NewTool("chat",
		mcp.WithDescription("Send a message to a bot session and get its reply."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation ID; each ID keeps its own task list")),
		mcp.WithString("text", mcp.Required(), mcp.Description("User message")),
		mcp.WithOutputSchema[ChatResult](),
	)
	s.mcpServer.AddTool(chatTool, mcp.NewStructuredToolHandler(s.handleChat))

	// TOOL: evaluate
	evalTool := mcp.NewTool("evaluate",
		mcp.WithDescription("Evaluate an arithmetic expression (+ - * / % ^ and parentheses)."),
		mcp.WithString("expression", mcp.Required(), mcp.Description("Expression such as 2^3^2 or (1+2)*3")),
		mcp.WithOutputSchema[EvaluateResult](),
	)
	s.mcpServer.AddTool(evalTool, mcp.NewStructuredToolHandler(s.handleEvaluate))

	// TOOL: list_tasks
	listTool := mcp.NewTool("list_tasks",
		mcp.WithDescription("List the task list of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation ID")),
		mcp.WithOutputSchema[TasksResult](),
	)
	s.mcpServer.AddTool(listTool, mcp.NewStructuredToolHandler(s.handleListTasks))

	// TOOL: clear_tasks
	clearTool := mcp.NewTool("clear_tasks",
		mcp.WithDescription("Remove every task of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Conversation ID")),
		mcp.WithOutputSchema[TasksResult](),
	)
	s.mcpServer.AddTool(clearTool, mcp.NewStructuredToolHandler(s.handleClearTasks))
}

func decodeArgs(args map[string]interface{}, out any) error {
	if err := mapstructure.Decode(args, out); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) handleChat(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ChatResult, error) {
	var in ChatArgs
	if err := decodeArgs(args, &in); err != nil {
		return ChatResult{}, err
	}

	// Sanitize Input
	clean, err := runner.SanitizeInput(in.Text)
	if err != nil {
		s.logger.Warn("MCP Chat: Input rejected", "err", err, "size", len(in.Text))
		return ChatResult{}, fmt.Errorf("input rejected: %w", err)
	}

	reply, err := s.sessions.Respond(ctx, in.SessionID, clean)
	if err != nil {
		return ChatResult{}, fmt.Errorf("chat failed: %w", err)
	}
	return ChatResult{SessionID: in.SessionID, Reply: reply.Text, Source: reply.Source}, nil
}

func (s *Server) handleEvaluate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EvaluateResult, error) {
	var in EvaluateArgs
	if err := decodeArgs(args, &in); err != nil {
		return EvaluateResult{}, err
	}

	if len(in.Expression) > runner.MaxInputSize() {
		s.logger.Warn("MCP Evaluate: Input rejected", "size", len(in.Expression))
		return EvaluateResult{}, fmt.Errorf("input rejected: %w", runner.ErrInputTooLarge)
	}

	v, err := s.evaluator.Evaluate(ctx, in.Expression)
	if err != nil {
		return EvaluateResult{}, fmt.Errorf("%s: %w", calc.KindOf(err), err)
	}
	return EvaluateResult{Result: v, Formatted: calc.Format(v)}, nil
}

func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TasksResult, error) {
	var in TasksArgs
	if err := decodeArgs(args, &in); err != nil {
		return TasksResult{}, err
	}

	items, err := s.sessions.Tasks(ctx, in.SessionID)
	if err != nil {
		return TasksResult{}, fmt.Errorf("list failed: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return TasksResult{SessionID: in.SessionID, Items: items}, nil
}

func (s *Server) handleClearTasks(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (TasksResult, error) {
	var in TasksArgs
	if err := decodeArgs(args, &in); err != nil {
		return TasksResult{}, err
	}

	if err := s.sessions.ClearTasks(ctx, in.SessionID); err != nil {
		return TasksResult{}, fmt.Errorf("clear failed: %w", err)
	}
	return TasksResult{SessionID: in.SessionID, Items: []string{}}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: minibot://intents
	s.mcpServer.AddResource(mcp.NewResource(IntentsURI, "Intent Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		intents := s.evaluator.Intents()
		out := make([]IntentInfo, 0, len(intents))
		for _, in := range intents {
			out = append(out, IntentInfo{Name: in.Name, Triggers: in.Triggers})
		}
		jsonBytes, err := json.Marshal(out)
		if err != nil {
			return nil, fmt.Errorf("failed to encode intents: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      IntentsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
