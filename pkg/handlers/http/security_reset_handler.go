package http

import (
	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type securityResetHandler struct {
	logger   *logrus.Logger
	registry guardrail.Registry
}

func NewSecurityResetHandler(logger *logrus.Logger, registry guardrail.Registry) Handler {
	return &securityResetHandler{
		logger:   logger,
		registry: registry,
	}
}

// Handle @Summary Reset a user's security state
// @Description Clears the warning count and block flag, incidents are kept
// @Tags Security
// @Param Authorization header string true "Authorization token"
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} map[string]interface{} "Reset confirmation"
// @Router /security/reset/{user_id} [post]
func (s *securityResetHandler) Handle(c *fiber.Ctx) error {
	userID := c.Params("user_id")
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	s.registry.Reset(userID)
	s.logger.WithField("user_id", userID).Info("security state reset by admin")

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Security status reset for user " + userID,
		"status":  s.registry.Status(userID),
	})
}
