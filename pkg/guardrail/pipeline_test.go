package guardrail

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClassifier struct {
	mu    sync.Mutex
	calls int
	level security.RiskLevel
	cat   string
	err   error
}

func (s *stubClassifier) Classify(_ context.Context, _ string, direction security.Direction) (security.Assessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return security.Assessment{}, s.err
	}
	return security.Assessment{Level: s.level, Category: s.cat, Direction: direction}, nil
}

func (s *stubClassifier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []*Event
}

func (r *recordingNotifier) Notify(evt *Event) {
	r.mu.Lock()
	r.events = append(r.events, evt)
	r.mu.Unlock()
}

func (r *recordingNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func newTestPipeline(classifier Classifier, maxWarnings int) (*Pipeline, *MemoryRegistry, *recordingNotifier) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	registry := NewMemoryRegistry(maxWarnings, nil, logger)
	notifier := &recordingNotifier{}
	return NewPipeline(classifier, registry, notifier, logger), registry, notifier
}

func TestPipeline_SafeMessagePassesWithoutRecord(t *testing.T) {
	classifier := &stubClassifier{level: security.Safe, cat: "none"}
	pipeline, registry, _ := newTestPipeline(classifier, 3)

	decision := pipeline.CheckInbound(context.Background(), "user-1", "hello")

	assert.Equal(t, ActionAllow, decision.Action)
	assert.True(t, decision.Allowed())
	assert.Empty(t, registry.users)
}

func TestPipeline_LowIsRecordedButNeverWarns(t *testing.T) {
	classifier := &stubClassifier{level: security.Low, cat: "pressure"}
	pipeline, registry, _ := newTestPipeline(classifier, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		decision := pipeline.CheckInbound(ctx, "user-1", "urgent, respond")
		assert.Equal(t, ActionAllow, decision.Action)
	}

	status := registry.Status("user-1")
	assert.Equal(t, 0, status.Warnings)
	assert.False(t, status.IsBlocked)
	assert.Len(t, registry.GetOrCreate("user-1").Incidents, 5)
}

func TestPipeline_ThirdWarningBlocksItsOwnRequest(t *testing.T) {
	classifier := &stubClassifier{level: security.Medium, cat: "harmful"}
	pipeline, registry, notifier := newTestPipeline(classifier, 3)
	ctx := context.Background()

	first := pipeline.CheckInbound(ctx, "user-1", "under the table")
	assert.Equal(t, ActionWarn, first.Action)
	assert.Equal(t, WarnDisclaimer, first.Message)

	second := pipeline.CheckInbound(ctx, "user-1", "under the table")
	assert.Equal(t, ActionWarn, second.Action)

	third := pipeline.CheckInbound(ctx, "user-1", "under the table")
	assert.Equal(t, ActionBlock, third.Action)
	assert.False(t, third.Allowed())
	assert.Equal(t, MsgThreshold, third.Message)

	assert.True(t, registry.Status("user-1").IsBlocked)
	assert.Equal(t, 0, notifier.count())
}

func TestPipeline_BlockedUserSkipsClassifier(t *testing.T) {
	classifier := &stubClassifier{level: security.Medium, cat: "harmful"}
	pipeline, _, _ := newTestPipeline(classifier, 1)
	ctx := context.Background()

	blocked := pipeline.CheckInbound(ctx, "user-1", "under the table")
	require.Equal(t, ActionBlock, blocked.Action)
	callsBefore := classifier.callCount()

	next := pipeline.CheckInbound(ctx, "user-1", "what apartments are available?")

	assert.Equal(t, ActionBlock, next.Action)
	assert.Equal(t, MsgUserBlocked, next.Message)
	assert.Equal(t, security.Critical, next.Assessment.Level)
	assert.Equal(t, "user_blocked", next.Assessment.Category)
	assert.Equal(t, callsBefore, classifier.callCount())
}

func TestPipeline_CriticalEscalatesOnce(t *testing.T) {
	classifier := &stubClassifier{level: security.Critical, cat: "harmful"}
	pipeline, registry, notifier := newTestPipeline(classifier, 3)

	decision := pipeline.CheckInbound(context.Background(), "user-1", "drop table listings")

	assert.Equal(t, ActionEscalate, decision.Action)
	assert.False(t, decision.Allowed())
	assert.Equal(t, MsgEscalated, decision.Message)

	status := registry.Status("user-1")
	assert.True(t, status.IsBlocked)
	assert.Equal(t, 0, status.Warnings)

	require.Equal(t, 1, notifier.count())
	evt := notifier.events[0]
	assert.Equal(t, "user-1", evt.UserID)
	assert.Equal(t, security.Critical, evt.Assessment.Level)
}

func TestPipeline_HighRiskBlocksWithoutEscalation(t *testing.T) {
	classifier := &stubClassifier{level: security.High, cat: "harmful"}
	pipeline, registry, notifier := newTestPipeline(classifier, 3)

	decision := pipeline.CheckInbound(context.Background(), "user-1", "rental scam")

	assert.Equal(t, ActionBlock, decision.Action)
	assert.Equal(t, MsgBlocked, decision.Message)
	assert.Equal(t, 0, notifier.count())

	// High blocks the request, not the user.
	assert.False(t, registry.Status("user-1").IsBlocked)
}

func TestPipeline_ClassifierFailureDegradesToWarning(t *testing.T) {
	classifier := &stubClassifier{err: errors.New("scoring service down")}
	pipeline, registry, _ := newTestPipeline(classifier, 3)

	decision := pipeline.CheckInbound(context.Background(), "user-1", "hello")

	assert.Equal(t, ActionWarn, decision.Action)
	assert.True(t, decision.Allowed())
	assert.Equal(t, security.Medium, decision.Assessment.Level)
	assert.Equal(t, "classifier_error", decision.Assessment.Category)
	assert.Equal(t, 1, registry.Status("user-1").Warnings)
}

func TestPipeline_OutboundRejectionsUseSafeRefusal(t *testing.T) {
	tests := []struct {
		name  string
		level security.RiskLevel
	}{
		{name: "high risk output", level: security.High},
		{name: "critical output", level: security.Critical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classifier := &stubClassifier{level: tt.level, cat: "unsafe_advice"}
			pipeline, _, _ := newTestPipeline(classifier, 3)

			decision := pipeline.CheckOutbound(context.Background(), "user-1", "skip inspection")

			assert.False(t, decision.Allowed())
			assert.Equal(t, SafeRefusal, decision.Message)
			assert.Equal(t, security.Outbound, decision.Assessment.Direction)
		})
	}
}

func TestPipeline_OutboundThresholdAlsoRefusesSafely(t *testing.T) {
	classifier := &stubClassifier{level: security.Medium, cat: "unsafe_advice"}
	pipeline, _, _ := newTestPipeline(classifier, 1)

	decision := pipeline.CheckOutbound(context.Background(), "user-1", "sure thing")

	assert.Equal(t, ActionBlock, decision.Action)
	assert.Equal(t, SafeRefusal, decision.Message)
}

func TestPipeline_ResetReopensClassification(t *testing.T) {
	classifier := &stubClassifier{level: security.Critical, cat: "harmful"}
	pipeline, registry, _ := newTestPipeline(classifier, 3)
	ctx := context.Background()

	pipeline.CheckInbound(ctx, "user-1", "drop table listings")
	require.True(t, registry.Status("user-1").IsBlocked)

	registry.Reset("user-1")
	callsBefore := classifier.callCount()

	classifier.mu.Lock()
	classifier.level = security.Safe
	classifier.cat = "none"
	classifier.mu.Unlock()

	decision := pipeline.CheckInbound(ctx, "user-1", "what apartments are available?")

	assert.Equal(t, ActionAllow, decision.Action)
	assert.Equal(t, callsBefore+1, classifier.callCount())
}

func TestPipeline_WarningsAreSharedAcrossDirections(t *testing.T) {
	classifier := &stubClassifier{level: security.Medium, cat: "harmful"}
	pipeline, registry, _ := newTestPipeline(classifier, 3)
	ctx := context.Background()

	pipeline.CheckInbound(ctx, "user-1", "under the table")
	pipeline.CheckOutbound(ctx, "user-1", "sure thing")

	assert.Equal(t, 2, registry.Status("user-1").Warnings)
}
