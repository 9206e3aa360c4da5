package chat

import (
	"context"
	"fmt"

	"github.com/estatewise/sentinel/pkg/config"
	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/estatewise/sentinel/pkg/infra/providers"
	"github.com/sirupsen/logrus"
)

const (
	AgentRent = "rent"
	AgentSale = "sale"

	styleInstructions = "Use a conversational tone and write in a chat style without formal formatting or lists and do not use any emojis."
)

// Agent is one assistant profile selectable per request.
type Agent struct {
	Name         string
	Instructions string
}

// NewAgents builds the rent and sale profiles. Listing context rendered
// from the datasets is folded into the instructions.
func NewAgents(rentContext, saleContext string) map[string]Agent {
	rent := Agent{
		Name:         "Rent Support Agent",
		Instructions: fmt.Sprintf("You are a rent support assistant. %s", styleInstructions),
	}
	if rentContext != "" {
		rent.Instructions += "\n\nCurrent rental listings:\n" + rentContext
	}

	sale := Agent{
		Name:         "Sale Support Agent",
		Instructions: fmt.Sprintf("You are a sale support assistant. %s", styleInstructions),
	}
	if saleContext != "" {
		sale.Instructions += "\n\nCurrent sale listings:\n" + saleContext
	}

	return map[string]Agent{AgentRent: rent, AgentSale: sale}
}

// Result is the façade's answer to one chat turn.
type Result struct {
	Response       string `json:"response"`
	Agent          string `json:"agent"`
	SecurityStatus string `json:"security_status"`
}

// Service runs one chat turn: inbound guardrail check, model completion,
// outbound guardrail check.
type Service struct {
	pipeline *guardrail.Pipeline
	model    providers.Client
	modelCfg config.ModelConfig
	agents   map[string]Agent
	logger   *logrus.Logger
}

func NewService(
	pipeline *guardrail.Pipeline,
	model providers.Client,
	modelCfg config.ModelConfig,
	agents map[string]Agent,
	logger *logrus.Logger,
) *Service {
	return &Service{
		pipeline: pipeline,
		model:    model,
		modelCfg: modelCfg,
		agents:   agents,
		logger:   logger,
	}
}

// Chat returns a *guardrail.PolicyError when the inbound check rejects the
// message; any other error is an infrastructure failure. The model's raw
// text never reaches the caller when the outbound check rejects it.
func (s *Service) Chat(ctx context.Context, userID, agentType, message string) (*Result, error) {
	inbound := s.pipeline.CheckInbound(ctx, userID, message)
	if !inbound.Allowed() {
		return nil, &guardrail.PolicyError{
			StatusCode: 403,
			Message:    inbound.Message,
			Assessment: inbound.Assessment,
			Err:        fmt.Errorf("inbound message rejected: %s", inbound.Assessment.Category),
		}
	}

	agent := s.agent(agentType)

	reply, err := s.model.Ask(ctx, &providers.Config{
		APIKey:       s.modelCfg.APIKey,
		Model:        s.modelCfg.Model,
		SystemPrompt: agent.Instructions,
		MaxTokens:    s.modelCfg.MaxTokens,
		Temperature:  s.modelCfg.Temperature,
	}, message)
	if err != nil {
		return nil, fmt.Errorf("model request failed: %w", err)
	}

	outbound := s.pipeline.CheckOutbound(ctx, userID, reply)
	if !outbound.Allowed() {
		s.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"agent":   agent.Name,
			"level":   outbound.Assessment.Level.String(),
		}).Warn("model output replaced with safe refusal")
		return &Result{
			Response:       outbound.Message,
			Agent:          agent.Name,
			SecurityStatus: "filtered",
		}, nil
	}

	response := reply
	status := "safe"
	if inbound.Action == guardrail.ActionWarn || outbound.Action == guardrail.ActionWarn {
		response += guardrail.WarnDisclaimer
		status = "warning"
	}

	return &Result{
		Response:       response,
		Agent:          agent.Name,
		SecurityStatus: status,
	}, nil
}

func (s *Service) agent(agentType string) Agent {
	if agent, ok := s.agents[agentType]; ok {
		return agent
	}
	return s.agents[AgentRent]
}
