package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/estatewise/sentinel/pkg/config"
	handlers "github.com/estatewise/sentinel/pkg/handlers/http"
	"github.com/estatewise/sentinel/pkg/infra/prometheus"
	"github.com/estatewise/sentinel/pkg/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

type BaseServer struct {
	Config         *config.Config
	Logger         *logrus.Logger
	Router         *fiber.App
	metricsStarted bool
}

func NewBaseServer(cfg *config.Config, logger *logrus.Logger) *BaseServer {
	r := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReduceMemoryUsage:     true,
		Network:               fiber.NetworkTCP,
		EnablePrintRoutes:     false,
		BodyLimit:             1 * 1024 * 1024,
		ReadTimeout:           60 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	r.Server().NoDefaultServerHeader = true
	r.Server().NoDefaultDate = true

	return &BaseServer{
		Config: cfg,
		Logger: logger,
		Router: r,
	}
}

func (s *BaseServer) setupHealthCheck() {
	s.Router.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
}

// setupMetricsEndpoint starts a second listener dedicated to the
// prometheus registry so scrapes never compete with chat traffic.
func (s *BaseServer) setupMetricsEndpoint() {
	if s.metricsStarted {
		return
	}
	s.metricsStarted = true

	metricsApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	metricsApp.Use(recover.New())

	metricsApp.Get("/metrics", func(c *fiber.Ctx) error {
		handler := fasthttpadaptor.NewFastHTTPHandler(prometheus.Handler())
		handler(c.Context())
		return nil
	})

	go func() {
		addr := fmt.Sprintf(":%d", s.Config.Server.MetricsPort)
		if err := metricsApp.Listen(addr); err != nil {
			if !strings.Contains(err.Error(), "address already in use") {
				s.Logger.WithError(err).Error("failed to start metrics server")
			}
		}
	}()
}

type (
	APIServerDI struct {
		Config           *config.Config
		Logger           *logrus.Logger
		HandlerTransport handlers.HandlerTransport
		AdminAuth        middleware.Middleware
	}
	APIServer struct {
		*BaseServer
		handlerTransport handlers.HandlerTransport
		adminAuth        middleware.Middleware
	}
)

func NewAPIServer(di APIServerDI) *APIServer {
	return &APIServer{
		BaseServer:       NewBaseServer(di.Config, di.Logger),
		handlerTransport: di.HandlerTransport,
		adminAuth:        di.AdminAuth,
	}
}

func (s *APIServer) Run() error {
	s.setupRoutes()
	s.setupHealthCheck()
	s.setupMetricsEndpoint()

	addr := fmt.Sprintf("%s:%d", s.Config.Server.Host, s.Config.Server.Port)
	s.Logger.WithField("addr", addr).Info("starting api server")
	return s.Router.Listen(addr)
}

func (s *APIServer) setupRoutes() {
	s.Router.Use(recover.New())

	s.Router.Post("/chat", s.handlerTransport.ChatHandler.Handle)

	sec := s.Router.Group("/security")
	{
		sec.Get("/status/:user_id", s.handlerTransport.SecurityStatusHandler.Handle)
		sec.Post("/reset/:user_id", s.adminAuth.Middleware(), s.handlerTransport.SecurityResetHandler.Handle)
		sec.Get("/health", s.handlerTransport.SecurityHealthHandler.Handle)
	}
}

func (s *APIServer) Shutdown() error {
	return s.Router.Shutdown()
}
