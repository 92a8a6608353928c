package repositories

import (
	"context"

	"teamhub.backend/internal/domain/entities"
)

// ActivityRepository appends audit events. Nothing in this service reads them back.
type ActivityRepository interface {
	Append(ctx context.Context, event *entities.ActivityEvent) error
}
