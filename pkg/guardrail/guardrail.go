package guardrail

import (
	"github.com/estatewise/sentinel/pkg/domain/security"
)

// Action is what the pipeline does with a payload after classification.
type Action string

const (
	ActionAllow    Action = "allow"
	ActionWarn     Action = "warn"
	ActionBlock    Action = "block"
	ActionEscalate Action = "escalate"
)

// Decision is the outcome of one guardrail check.
type Decision struct {
	Action     Action              `json:"action"`
	Assessment security.Assessment `json:"assessment"`
	Message    string              `json:"message,omitempty"`
}

// Allowed reports whether the payload may proceed. Warn proceeds with an
// annotation; Block and Escalate reject.
func (d Decision) Allowed() bool {
	return d.Action == ActionAllow || d.Action == ActionWarn
}

// actionFor is the risk-to-action policy table. Monotonic in risk level.
func actionFor(level security.RiskLevel) Action {
	switch level {
	case security.Safe, security.Low:
		return ActionAllow
	case security.Medium:
		return ActionWarn
	case security.High:
		return ActionBlock
	case security.Critical:
		return ActionEscalate
	default:
		return ActionBlock
	}
}

// PolicyError is surfaced to the transport layer when a request is rejected
// on policy grounds, distinct from infrastructure failures. It never carries
// classifier internals.
type PolicyError struct {
	StatusCode int
	Message    string
	Assessment security.Assessment
	Err        error
}

func (e *PolicyError) Error() string {
	return e.Message
}

func (e *PolicyError) Unwrap() error {
	return e.Err
}

// Fixed user-facing texts. Policy responses never leak classifier output.
const (
	MsgUserBlocked = "Your account has been temporarily restricted due to security concerns. Please contact support."
	MsgThreshold   = "Your account has been temporarily restricted due to repeated security warnings."
	MsgBlocked     = "Your message has been blocked due to inappropriate content. Please ask questions related to real estate in a respectful and legal manner."
	MsgEscalated   = "Your message has been flagged for serious policy violations. Your account has been temporarily restricted."
	MsgTechnical   = "I'm experiencing technical difficulties. Please try your real estate question again in a moment."

	// WarnDisclaimer is appended to responses that proceed under a Warn decision.
	WarnDisclaimer = "\n\nDisclaimer: This information is for general purposes only. Please consult with qualified professionals for specific advice regarding real estate transactions, legal matters, or financial decisions."

	// SafeRefusal replaces model output that failed the outbound check.
	SafeRefusal = "I apologize, but I cannot provide a response to that query. Please ask me about real estate properties, market insights, or general housing information, and I'll be happy to help."
)
