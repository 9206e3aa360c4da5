package security

import (
	"time"

	"github.com/google/uuid"
)

// RiskLevel is the ordered severity of a classified payload. The policy
// applied by the guardrail is monotonic in this ordering.
type RiskLevel int

const (
	Safe RiskLevel = iota
	Low
	Medium
	High
	Critical
)

func (l RiskLevel) String() string {
	switch l {
	case Safe:
		return "safe"
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// ParseRiskLevel maps a wire-level risk string to a RiskLevel.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch s {
	case "safe":
		return Safe, true
	case "low":
		return Low, true
	case "medium":
		return Medium, true
	case "high":
		return High, true
	case "critical":
		return Critical, true
	default:
		return Safe, false
	}
}

// Direction tells whether the classified payload is user input or model output.
type Direction string

const (
	Inbound  Direction = "inbound"
	Outbound Direction = "outbound"
)

// Assessment is the immutable result of one classification.
type Assessment struct {
	Level     RiskLevel `json:"level"`
	Category  string    `json:"category"`
	Direction Direction `json:"direction"`
}

// Incident is one audit-log entry for a user.
type Incident struct {
	ID         uuid.UUID  `json:"id"`
	Timestamp  time.Time  `json:"timestamp"`
	Assessment Assessment `json:"assessment"`
}

// Record is the per-user security state. Mutation happens only inside the
// registry; consumers receive copies.
type Record struct {
	UserID       string     `json:"user_id"`
	WarningCount int        `json:"warnings"`
	Blocked      bool       `json:"is_blocked"`
	Incidents    []Incident `json:"incidents"`
}

// Status is the read-only snapshot exposed on the status endpoint.
type Status struct {
	UserID      string `json:"user_id"`
	Warnings    int    `json:"warnings"`
	IsBlocked   bool   `json:"is_blocked"`
	MaxWarnings int    `json:"max_warnings"`
}

// Health aggregates registry state for the health endpoint.
type Health struct {
	BlockedUsers  int `json:"blocked_users"`
	TotalWarnings int `json:"total_warnings"`
}
