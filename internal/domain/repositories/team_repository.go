package repositories

import (
	"context"

	"github.com/google/uuid"
	"teamhub.backend/internal/domain/entities"
)

// TeamRepository defines team data operations
type TeamRepository interface {
	Create(ctx context.Context, team *entities.Team) error
	// GetByID returns the team whatever its active flag.
	GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error)
	// ListActiveForMember returns active teams where userID holds an active
	// membership, ordered by name, with Role set to that member's role.
	ListActiveForMember(ctx context.Context, userID uuid.UUID) ([]*entities.TeamSummary, error)
	Update(ctx context.Context, team *entities.Team) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
}
