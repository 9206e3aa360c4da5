package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/estatewise/sentinel/pkg/config"
	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/estatewise/sentinel/pkg/guardrail"
	"github.com/estatewise/sentinel/pkg/infra/providers"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// directionalClassifier returns a different level per direction, so the
// outbound path can be exercised while inbound passes.
type directionalClassifier struct {
	inbound  security.RiskLevel
	outbound security.RiskLevel
}

func (d *directionalClassifier) Classify(_ context.Context, _ string, direction security.Direction) (security.Assessment, error) {
	level := d.inbound
	if direction == security.Outbound {
		level = d.outbound
	}
	return security.Assessment{Level: level, Category: "test", Direction: direction}, nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(_ *guardrail.Event) {}

type stubModel struct {
	reply  string
	err    error
	prompt string
}

func (s *stubModel) Ask(_ context.Context, cfg *providers.Config, _ string) (string, error) {
	s.prompt = cfg.SystemPrompt
	return s.reply, s.err
}

func newTestService(classifier guardrail.Classifier, model providers.Client) *Service {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	registry := guardrail.NewMemoryRegistry(3, nil, logger)
	pipeline := guardrail.NewPipeline(classifier, registry, noopNotifier{}, logger)
	agents := NewAgents("city=Rome, rooms=2, price=1400", "city=Milan, rooms=3, price=450000")
	return NewService(pipeline, model, config.ModelConfig{APIKey: "test", Model: "gpt-4o-mini"}, agents, logger)
}

func TestService_SafeTurn(t *testing.T) {
	model := &stubModel{reply: "There is a flat in Rome."}
	service := newTestService(&directionalClassifier{inbound: security.Safe, outbound: security.Safe}, model)

	result, err := service.Chat(context.Background(), "user-1", AgentRent, "any flats?")
	require.NoError(t, err)

	assert.Equal(t, "There is a flat in Rome.", result.Response)
	assert.Equal(t, "Rent Support Agent", result.Agent)
	assert.Equal(t, "safe", result.SecurityStatus)
	assert.Contains(t, model.prompt, "city=Rome")
}

func TestService_UnknownAgentFallsBackToRent(t *testing.T) {
	model := &stubModel{reply: "ok"}
	service := newTestService(&directionalClassifier{}, model)

	result, err := service.Chat(context.Background(), "user-1", "mortgage", "hello")
	require.NoError(t, err)
	assert.Equal(t, "Rent Support Agent", result.Agent)
}

func TestService_InboundRejectionIsPolicyError(t *testing.T) {
	model := &stubModel{reply: "never reached"}
	service := newTestService(&directionalClassifier{inbound: security.High, outbound: security.Safe}, model)

	_, err := service.Chat(context.Background(), "user-1", AgentRent, "bad message")

	var policyErr *guardrail.PolicyError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, 403, policyErr.StatusCode)
	assert.Equal(t, guardrail.MsgBlocked, policyErr.Message)
	assert.Empty(t, model.prompt)
}

func TestService_UnsafeOutputIsFiltered(t *testing.T) {
	model := &stubModel{reply: "you should skip inspection"}
	service := newTestService(&directionalClassifier{inbound: security.Safe, outbound: security.High}, model)

	result, err := service.Chat(context.Background(), "user-1", AgentRent, "advice?")
	require.NoError(t, err)

	assert.Equal(t, guardrail.SafeRefusal, result.Response)
	assert.Equal(t, "filtered", result.SecurityStatus)
	assert.NotContains(t, result.Response, "skip inspection")
}

func TestService_OutboundWarningAppendsDisclaimer(t *testing.T) {
	model := &stubModel{reply: "Prices look promising."}
	service := newTestService(&directionalClassifier{inbound: security.Safe, outbound: security.Medium}, model)

	result, err := service.Chat(context.Background(), "user-1", AgentRent, "will prices rise?")
	require.NoError(t, err)

	assert.Equal(t, "warning", result.SecurityStatus)
	assert.True(t, strings.HasPrefix(result.Response, "Prices look promising."))
	assert.Contains(t, result.Response, "Disclaimer:")
}

func TestService_ModelFailurePropagates(t *testing.T) {
	model := &stubModel{err: errors.New("upstream timeout")}
	service := newTestService(&directionalClassifier{}, model)

	_, err := service.Chat(context.Background(), "user-1", AgentRent, "hello")

	require.Error(t, err)
	var policyErr *guardrail.PolicyError
	assert.False(t, errors.As(err, &policyErr))
}
