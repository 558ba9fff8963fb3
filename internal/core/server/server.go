package server

import (
	"context"
	"fmt"
	"net/http"

	"shipping-distance/internal/core/config"
	"shipping-distance/internal/core/logger"

	"github.com/gofiber/contrib/fiberzap/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"

	_ "shipping-distance/docs/swagger"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server holds the Fiber application and configuration.
type Server struct {
	// App is the main Fiber application instance.
	App *fiber.App
	// cfg holds the application configuration.
	cfg *config.AppConfig
	// cache is checked by the health endpoint.
	cache Pinger
}

// HealthResponse is the body of the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// New creates a new Server instance with configured middleware.
func New(cfg *config.AppConfig, cache Pinger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		AppName:               "shipping-distance",
	})

	app.Use(requestid.New(requestid.Config{
		Header: "X-Ray-ID",
	}))

	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logger.Get(),
	}))

	app.Get("/swagger/*", swagger.HandlerDefault)

	s := &Server{
		App:   app,
		cfg:   cfg,
		cache: cache,
	}
	app.Get("/health", s.health)

	return s
}

// health reports whether the distance cache is reachable.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (s *Server) health(c *fiber.Ctx) error {
	if err := s.cache.Ping(c.UserContext()); err != nil {
		logger.Get().Warn("Health check failed", zap.Error(err))
		return c.Status(http.StatusServiceUnavailable).JSON(HealthResponse{
			Status: "unavailable",
			Error:  "cache unreachable",
		})
	}
	return c.Status(http.StatusOK).JSON(HealthResponse{Status: "ok"})
}

// Run starts the HTTP server.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	logger.Get().Info("Starting server", zap.String("address", addr))
	return s.App.Listen(addr)
}
