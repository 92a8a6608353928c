package repositories

import (
	"context"

	"github.com/google/uuid"
	"teamhub.backend/internal/domain/entities"
)

// MembershipRepository defines membership data operations
type MembershipRepository interface {
	// Get returns the row for the pair in any state, or ErrNotFound.
	Get(ctx context.Context, userID, teamID uuid.UUID) (*entities.Membership, error)
	// Create returns ErrAlreadyExists when the pair already has a row.
	Create(ctx context.Context, membership *entities.Membership) error
	Update(ctx context.Context, membership *entities.Membership) error
	ListActiveMembers(ctx context.Context, teamIDs ...uuid.UUID) ([]*entities.TeamMember, error)
}
