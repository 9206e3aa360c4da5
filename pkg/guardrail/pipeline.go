package guardrail

import (
	"context"
	"time"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/estatewise/sentinel/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Pipeline applies the risk-to-action policy to inbound and outbound text
// and keeps the per-user record current through the registry. Classification
// runs outside any registry lock.
type Pipeline struct {
	classifier Classifier
	registry   Registry
	notifier   Notifier
	logger     *logrus.Logger
}

func NewPipeline(classifier Classifier, registry Registry, notifier Notifier, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		classifier: classifier,
		registry:   registry,
		notifier:   notifier,
		logger:     logger,
	}
}

// CheckInbound gates a user message before it reaches the model. Blocked
// users are rejected without invoking the classifier.
func (p *Pipeline) CheckInbound(ctx context.Context, userID, text string) Decision {
	if p.registry.Status(userID).IsBlocked {
		prometheus.BlockedShortCircuitsTotal.Inc()
		decision := Decision{
			Action: ActionBlock,
			Assessment: security.Assessment{
				Level:     security.Critical,
				Category:  "user_blocked",
				Direction: security.Inbound,
			},
			Message: MsgUserBlocked,
		}
		p.observe(security.Inbound, decision)
		return decision
	}
	return p.check(ctx, userID, text, security.Inbound)
}

// CheckOutbound gates the model's generated text before it reaches the
// user. Block and Escalate substitute the fixed safe refusal; the incident
// is still recorded against the session's user.
func (p *Pipeline) CheckOutbound(ctx context.Context, userID, text string) Decision {
	return p.check(ctx, userID, text, security.Outbound)
}

func (p *Pipeline) check(ctx context.Context, userID, text string, direction security.Direction) Decision {
	start := time.Now()
	assessment := p.classify(ctx, userID, text, direction)
	action := actionFor(assessment.Level)

	var decision Decision
	switch action {
	case ActionAllow:
		if assessment.Level == security.Low {
			p.registry.RecordIncident(ctx, userID, assessment)
		}
		decision = Decision{Action: ActionAllow, Assessment: assessment}

	case ActionWarn:
		record := p.registry.RecordIncident(ctx, userID, assessment)
		if record.Blocked {
			// The warning that reaches the threshold rejects its own request.
			p.logger.WithFields(logrus.Fields{
				"user_id":  userID,
				"warnings": record.WarningCount,
			}).Warn("user blocked after repeated warnings")
			decision = Decision{Action: ActionBlock, Assessment: assessment, Message: p.rejectionMessage(direction, MsgThreshold)}
		} else {
			decision = Decision{Action: ActionWarn, Assessment: assessment, Message: WarnDisclaimer}
		}

	case ActionBlock:
		p.registry.RecordIncident(ctx, userID, assessment)
		decision = Decision{Action: ActionBlock, Assessment: assessment, Message: p.rejectionMessage(direction, MsgBlocked)}

	case ActionEscalate:
		p.registry.RecordIncident(ctx, userID, assessment)
		p.logger.WithFields(logrus.Fields{
			"user_id":  userID,
			"category": assessment.Category,
		}).Error("critical risk detected, user blocked and escalation sent")
		p.notifier.Notify(&Event{
			ID:         uuid.New(),
			UserID:     userID,
			Assessment: assessment,
			Timestamp:  time.Now().UTC(),
		})
		decision = Decision{Action: ActionEscalate, Assessment: assessment, Message: p.rejectionMessage(direction, MsgEscalated)}
	}

	if assessment.Level != security.Safe {
		p.logger.WithFields(logrus.Fields{
			"user_id":   userID,
			"direction": direction,
			"level":     assessment.Level.String(),
			"category":  assessment.Category,
			"action":    decision.Action,
		}).Warn("guardrail check flagged content")
	}

	p.observe(direction, decision)
	prometheus.GuardrailCheckLatency.WithLabelValues(string(direction)).
		Observe(float64(time.Since(start).Milliseconds()))
	return decision
}

// classify invokes the classifier and degrades failures to Medium risk:
// never fail open on infrastructure errors, never escalate on them either.
func (p *Pipeline) classify(ctx context.Context, userID, text string, direction security.Direction) security.Assessment {
	assessment, err := p.classifier.Classify(ctx, text, direction)
	if err != nil {
		prometheus.ClassifierFailuresTotal.Inc()
		p.logger.WithError(err).WithFields(logrus.Fields{
			"user_id":   userID,
			"direction": direction,
		}).Error("classifier failure, degrading to medium risk")
		return security.Assessment{
			Level:     security.Medium,
			Category:  "classifier_error",
			Direction: direction,
		}
	}
	assessment.Direction = direction
	return assessment
}

// rejectionMessage picks the user-facing text for a rejected check. On the
// outbound side the model text is discarded and only the safe refusal is
// ever returned.
func (p *Pipeline) rejectionMessage(direction security.Direction, inboundMsg string) string {
	if direction == security.Outbound {
		return SafeRefusal
	}
	return inboundMsg
}

func (p *Pipeline) observe(direction security.Direction, decision Decision) {
	prometheus.GuardrailChecksTotal.WithLabelValues(
		string(direction),
		decision.Assessment.Level.String(),
		string(decision.Action),
	).Inc()
}
