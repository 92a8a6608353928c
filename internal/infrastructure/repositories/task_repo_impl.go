package repositories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	"teamhub.backend/internal/infrastructure/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// CountOpenByTeam counts the team's tasks in a non-terminal status.
func (r *TaskRepository) CountOpenByTeam(ctx context.Context, teamID uuid.UUID) (int64, error) {
	statuses := make([]string, 0, len(entities.OpenTaskStatuses))
	for _, s := range entities.OpenTaskStatuses {
		statuses = append(statuses, string(s))
	}

	var count int64
	err := GetDB(ctx, r.db).
		Model(&models.Task{}).
		Where("team_id = ? AND status IN ?", teamID, statuses).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
