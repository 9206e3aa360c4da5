package guardrail

import (
	"context"
	"sync"
	"time"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/estatewise/sentinel/pkg/infra/prometheus"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Registry is the single authority over per-user security state. All
// read-modify-write sequences are serialized per user identifier.
type Registry interface {
	GetOrCreate(userID string) security.Record
	RecordIncident(ctx context.Context, userID string, assessment security.Assessment) security.Record
	Reset(userID string)
	Status(userID string) security.Status
	HealthSnapshot() security.Health
	MaxWarnings() int
}

type userState struct {
	mu     sync.Mutex
	record security.Record
}

// MemoryRegistry keeps records in process memory with one lock per user,
// so concurrent traffic for different users never contends. An optional
// archive receives a best-effort copy of every incident.
type MemoryRegistry struct {
	mu          sync.RWMutex
	users       map[string]*userState
	maxWarnings int
	archive     security.IncidentRepository
	logger      *logrus.Logger
}

func NewMemoryRegistry(maxWarnings int, archive security.IncidentRepository, logger *logrus.Logger) *MemoryRegistry {
	if maxWarnings <= 0 {
		maxWarnings = 3
	}
	return &MemoryRegistry{
		users:       make(map[string]*userState),
		maxWarnings: maxWarnings,
		archive:     archive,
		logger:      logger,
	}
}

func (r *MemoryRegistry) MaxWarnings() int {
	return r.maxWarnings
}

func (r *MemoryRegistry) GetOrCreate(userID string) security.Record {
	state := r.state(userID)
	state.mu.Lock()
	defer state.mu.Unlock()
	return snapshot(&state.record)
}

// RecordIncident appends to the incident log, counts Medium warnings, and
// trips the block flag when the threshold is reached or the level is
// Critical. The block check runs strictly after the increment. Returns the
// post-mutation snapshot.
func (r *MemoryRegistry) RecordIncident(ctx context.Context, userID string, assessment security.Assessment) security.Record {
	incident := security.Incident{
		ID:         uuid.New(),
		Timestamp:  time.Now().UTC(),
		Assessment: assessment,
	}

	state := r.state(userID)
	state.mu.Lock()
	state.record.Incidents = append(state.record.Incidents, incident)
	if assessment.Level == security.Medium {
		state.record.WarningCount++
	}
	if assessment.Level == security.Critical || state.record.WarningCount >= r.maxWarnings {
		state.record.Blocked = true
	}
	rec := snapshot(&state.record)
	state.mu.Unlock()

	if r.archive != nil {
		if err := r.archive.Save(ctx, userID, incident); err != nil {
			prometheus.IncidentArchiveFailuresTotal.Inc()
			r.logger.WithError(err).WithField("user_id", userID).Warn("failed to archive incident")
		}
	}

	return rec
}

// Reset clears the warning count and the block flag. The incident log is
// kept, it is the audit trail.
func (r *MemoryRegistry) Reset(userID string) {
	r.mu.RLock()
	state, ok := r.users[userID]
	r.mu.RUnlock()
	if !ok {
		return
	}

	state.mu.Lock()
	state.record.WarningCount = 0
	state.record.Blocked = false
	state.mu.Unlock()

	r.logger.WithField("user_id", userID).Info("security state reset")
}

// Status is a read-only snapshot; it never creates a record.
func (r *MemoryRegistry) Status(userID string) security.Status {
	status := security.Status{
		UserID:      userID,
		MaxWarnings: r.maxWarnings,
	}

	r.mu.RLock()
	state, ok := r.users[userID]
	r.mu.RUnlock()
	if !ok {
		return status
	}

	state.mu.Lock()
	status.Warnings = state.record.WarningCount
	status.IsBlocked = state.record.Blocked
	state.mu.Unlock()

	return status
}

func (r *MemoryRegistry) HealthSnapshot() security.Health {
	r.mu.RLock()
	states := make([]*userState, 0, len(r.users))
	for _, state := range r.users {
		states = append(states, state)
	}
	r.mu.RUnlock()

	var health security.Health
	for _, state := range states {
		state.mu.Lock()
		if state.record.Blocked {
			health.BlockedUsers++
		}
		health.TotalWarnings += state.record.WarningCount
		state.mu.Unlock()
	}
	return health
}

func (r *MemoryRegistry) state(userID string) *userState {
	r.mu.RLock()
	state, ok := r.users[userID]
	r.mu.RUnlock()
	if ok {
		return state
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if state, ok := r.users[userID]; ok {
		return state
	}
	state = &userState{record: security.Record{UserID: userID}}
	r.users[userID] = state
	return state
}

func snapshot(record *security.Record) security.Record {
	out := *record
	out.Incidents = make([]security.Incident, len(record.Incidents))
	copy(out.Incidents, record.Incidents)
	return out
}
