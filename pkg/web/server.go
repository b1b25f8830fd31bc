// Package web exposes the coaching engine over HTTP: a small REST surface
// for session control and a websocket per session for live frame streaming.
package web

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/teslashibe/go-coach/pkg/pose"
	"github.com/teslashibe/go-coach/pkg/session"
)

// Server is the coach API server.
type Server struct {
	app      *fiber.App
	port     string
	manager  *session.Manager
	detector pose.Detector
}

// NewServer creates the server over a session manager and a pose detector.
func NewServer(port string, manager *session.Manager, detector pose.Detector) *Server {
	s := &Server{
		port:     port,
		manager:  manager,
		detector: detector,
	}

	app := fiber.New(fiber.Config{
		AppName:               "Coach API",
		DisableStartupMessage: true,
		BodyLimit:             4 * 1024 * 1024, // base64 JPEG frames
	})

	// CORS for local development
	app.Use(cors.New())

	app.Get("/health", s.handleHealth)

	api := app.Group("/api")
	api.Get("/exercises", s.handleListExercises)
	api.Post("/sessions", s.handleStartSession)
	api.Get("/sessions/:id", s.handleGetSession)
	api.Post("/sessions/:id/calibrate", s.handleCalibrate)
	api.Delete("/sessions/:id", s.handleEndSession)

	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	app.Get("/ws/sessions/:id", websocket.New(s.handleSessionWS))

	s.app = app
	return s
}

// Start blocks serving HTTP on the configured port.
func (s *Server) Start() error {
	return s.app.Listen(fmt.Sprintf(":%s", s.port))
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}
