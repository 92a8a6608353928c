package repositories

import (
	"context"

	"github.com/google/uuid"
	"teamhub.backend/internal/domain/entities"
)

// UserRepository resolves users; their lifecycle is owned elsewhere.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
}
