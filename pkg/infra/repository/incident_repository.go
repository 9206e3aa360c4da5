package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/estatewise/sentinel/pkg/domain/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IncidentRow is the persisted form of one incident.
type IncidentRow struct {
	ID        uuid.UUID `gorm:"primaryKey;type:uuid"`
	UserID    string    `gorm:"index;not null"`
	Level     string    `gorm:"not null"`
	Category  string    `gorm:"not null"`
	Direction string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (IncidentRow) TableName() string {
	return "security_incidents"
}

// IncidentRepository archives incidents in postgres. Append-only: rows are
// never updated or deleted, Reset does not touch the archive.
type IncidentRepository struct {
	db *gorm.DB
}

func NewIncidentRepository(db *gorm.DB) security.IncidentRepository {
	return &IncidentRepository{db: db}
}

func (r *IncidentRepository) Save(ctx context.Context, userID string, incident security.Incident) error {
	row := &IncidentRow{
		ID:        incident.ID,
		UserID:    userID,
		Level:     incident.Assessment.Level.String(),
		Category:  incident.Assessment.Category,
		Direction: string(incident.Assessment.Direction),
		CreatedAt: incident.Timestamp,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to persist incident: %w", err)
	}
	return nil
}
