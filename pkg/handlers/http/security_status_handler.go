package http

import (
	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type securityStatusHandler struct {
	logger   *logrus.Logger
	registry guardrail.Registry
}

func NewSecurityStatusHandler(logger *logrus.Logger, registry guardrail.Registry) Handler {
	return &securityStatusHandler{
		logger:   logger,
		registry: registry,
	}
}

// Handle @Summary Retrieve a user's security status
// @Description Returns warning count and block flag for a user
// @Tags Security
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} security.Status "Security status"
// @Router /security/status/{user_id} [get]
func (s *securityStatusHandler) Handle(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}
	return c.Status(fiber.StatusOK).JSON(s.registry.Status(userID))
}
