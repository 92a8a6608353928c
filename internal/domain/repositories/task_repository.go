package repositories

import (
	"context"

	"github.com/google/uuid"
)

type TaskRepository interface {
	CountOpenByTeam(ctx context.Context, teamID uuid.UUID) (int64, error)
}
