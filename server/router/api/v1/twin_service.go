// Package v1 exposes the chat service over plain JSON HTTP.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/usetwin/twin/internal/chat"
	twinerrors "github.com/usetwin/twin/internal/errors"
	"github.com/usetwin/twin/internal/memory"
	"github.com/usetwin/twin/internal/profile"
	"github.com/usetwin/twin/server/internal/observability"
)

// APIV1Service holds the handlers for the public API surface.
type APIV1Service struct {
	Profile     *profile.Profile
	ChatService *chat.Service

	logger *slog.Logger
}

// NewAPIV1Service creates the API service.
func NewAPIV1Service(p *profile.Profile, chatService *chat.Service, logger *slog.Logger) *APIV1Service {
	return &APIV1Service{
		Profile:     p,
		ChatService: chatService,
		logger:      logger,
	}
}

// RegisterRoutes mounts the API on the given Echo instance.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	echoServer.GET("/", s.root)
	echoServer.GET("/health", s.health)
	echoServer.POST("/chat", s.chatTurn)
	echoServer.GET("/conversation/:sessionId", s.conversation)
}

// ChatRequest is the POST /chat body.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the POST /chat reply.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// ConversationResponse is the GET /conversation/:sessionId reply.
type ConversationResponse struct {
	SessionID string           `json:"session_id"`
	Messages  []memory.Message `json:"messages"`
}

// HealthResponse is the GET /health reply.
type HealthResponse struct {
	Status      string `json:"status"`
	UseS3       bool   `json:"use_s3"`
	OpenAIModel string `json:"openai_model"`
}

// RootResponse is the GET / reply.
type RootResponse struct {
	Message       string `json:"message"`
	MemoryEnabled bool   `json:"memory_enabled"`
	Storage       string `json:"storage"`
	AIModel       string `json:"ai_model"`
}

// ErrorResponse is the error body for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *APIV1Service) root(c echo.Context) error {
	return c.JSON(http.StatusOK, RootResponse{
		Message:       "AI Digital Twin API (Powered by OpenAI)",
		MemoryEnabled: true,
		Storage:       s.Profile.StorageName(),
		AIModel:       s.Profile.OpenAIModel,
	})
}

func (s *APIV1Service) health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:      "healthy",
		UseS3:       s.Profile.UseS3,
		OpenAIModel: s.Profile.OpenAIModel,
	})
}

func (s *APIV1Service) chatTurn(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Message is required"})
	}

	reqCtx := observability.NewRequestContext(s.logger, req.SessionID)
	result, err := s.ChatService.Chat(c.Request().Context(), req.SessionID, req.Message)
	if err != nil {
		reqCtx.Error("chat turn failed", err,
			slog.String(observability.LogFieldErrorCode, string(twinerrors.GetCodeFromError(err, twinerrors.ErrCodeUpstreamError))),
			slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
		)
		return s.writeError(c, err)
	}

	reqCtx.Info("chat turn served",
		slog.Int(observability.LogFieldMessageLen, len(req.Message)),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
	)
	return c.JSON(http.StatusOK, ChatResponse{
		Response:  result.Response,
		SessionID: result.SessionID,
	})
}

func (s *APIV1Service) conversation(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Session ID is required"})
	}

	messages, err := s.ChatService.Conversation(c.Request().Context(), sessionID)
	if err != nil {
		s.logger.Error("failed to load conversation",
			observability.LogFieldSessionID, sessionID,
			"error", err,
		)
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, ConversationResponse{
		SessionID: sessionID,
		Messages:  messages,
	})
}

// writeError is the single spot translating typed failures to HTTP. Internal
// detail never leaves the process; the logged error carries it.
func (s *APIV1Service) writeError(c echo.Context, err error) error {
	return c.JSON(twinerrors.HTTPStatus(err), ErrorResponse{Error: twinerrors.UserMessage(err)})
}
