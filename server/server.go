// Package server wires the Echo transport around the chat service.
package server

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/usetwin/twin/internal/chat"
	"github.com/usetwin/twin/internal/profile"
	apiv1 "github.com/usetwin/twin/server/router/api/v1"
)

// Server is the HTTP front of the digital twin.
type Server struct {
	Profile *profile.Profile

	echoServer *echo.Echo
}

// NewServer builds the Echo instance, installs CORS and registers the API
// routes.
func NewServer(p *profile.Profile, chatService *chat.Service, logger *slog.Logger) *Server {
	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true

	echoServer.Use(CORSMiddleware(p.CORSOrigins))

	apiService := apiv1.NewAPIV1Service(p, chatService, logger)
	apiService.RegisterRoutes(echoServer)

	return &Server{
		Profile:    p,
		echoServer: echoServer,
	}
}

// Start blocks serving HTTP until Shutdown is called or the listener fails.
func (s *Server) Start() error {
	return s.echoServer.Start(s.Profile.ListenAddr())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echoServer.Shutdown(ctx)
}
