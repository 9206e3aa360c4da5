package http

import (
	"errors"
	"strings"

	"github.com/estatewise/sentinel/pkg/app/chat"
	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type chatRequest struct {
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	AgentType string `json:"agent_type"`
}

type chatHandler struct {
	logger  *logrus.Logger
	service *chat.Service
}

func NewChatHandler(logger *logrus.Logger, service *chat.Service) Handler {
	return &chatHandler{
		logger:  logger,
		service: service,
	}
}

// Handle @Summary Send a chat message
// @Description Runs a guarded chat turn for the given user
// @Tags Chat
// @Accept json
// @Produce json
// @Param request body chatRequest true "Chat request"
// @Success 200 {object} chat.Result "Chat response"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 403 {object} map[string]interface{} "Rejected by security policy"
// @Router /chat [post]
func (s *chatHandler) Handle(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "message is required"})
	}
	if strings.TrimSpace(req.UserID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "user_id is required"})
	}

	result, err := s.service.Chat(c.Context(), req.UserID, req.AgentType, req.Message)
	if err != nil {
		var policyErr *guardrail.PolicyError
		if errors.As(err, &policyErr) {
			return c.Status(policyErr.StatusCode).JSON(fiber.Map{
				"error": policyErr.Message,
				"security_info": fiber.Map{
					"risk_level": policyErr.Assessment.Level.String(),
					"category":   policyErr.Assessment.Category,
				},
			})
		}
		s.logger.WithError(err).WithField("user_id", req.UserID).Error("chat turn failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": guardrail.MsgTechnical,
		})
	}

	return c.Status(fiber.StatusOK).JSON(result)
}
