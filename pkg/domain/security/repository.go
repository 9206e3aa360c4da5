package security

import "context"

// IncidentRepository archives incidents for audit. The in-memory registry
// stays authoritative; archive writes are best-effort.
type IncidentRepository interface {
	Save(ctx context.Context, userID string, incident Incident) error
}
