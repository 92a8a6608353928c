package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	"teamhub.backend/internal/infrastructure/models"
	"teamhub.backend/pkg/utils"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Append stores the event, assigning an id and timestamp when missing.
// Re-appending an event that already landed is a no-op, so retries are safe.
func (r *ActivityRepository) Append(ctx context.Context, event *entities.ActivityEvent) error {
	if event.ID == uuid.Nil {
		event.ID = utils.GenerateUUIDv7()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	m := &models.Activity{
		ID:          event.ID,
		Type:        string(event.Type),
		Description: event.Description,
		UserID:      event.ActorID,
		TeamID:      event.TeamID,
		CreatedAt:   event.CreatedAt,
	}
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}
