package http

import (
	"time"

	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type securityHealthHandler struct {
	logger   *logrus.Logger
	registry guardrail.Registry
}

func NewSecurityHealthHandler(logger *logrus.Logger, registry guardrail.Registry) Handler {
	return &securityHealthHandler{
		logger:   logger,
		registry: registry,
	}
}

// Handle @Summary Guardrail health snapshot
// @Description Returns aggregate counts across all tracked users
// @Tags Security
// @Produce json
// @Success 200 {object} map[string]interface{} "Health snapshot"
// @Router /security/health [get]
func (s *securityHealthHandler) Handle(c *fiber.Ctx) error {
	health := s.registry.HealthSnapshot()
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"guardrail_active": true,
		"blocked_users":    health.BlockedUsers,
		"total_warnings":   health.TotalWarnings,
		"max_warnings":     s.registry.MaxWarnings(),
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}
