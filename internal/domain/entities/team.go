package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// Team is a named collaborative group. Deactivated teams keep their row.
type Team struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateTeamInput represents input for creating a team
type CreateTeamInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description"`
	Color       string `json:"color" binding:"max=20"`
}

// UpdateTeamInput carries a partial update; nil fields are left untouched.
type UpdateTeamInput struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=120"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,max=20"`
}

// Apply copies the provided fields onto team and reports whether anything changed.
func (in UpdateTeamInput) Apply(team *Team) bool {
	changed := false
	if in.Name != nil && *in.Name != team.Name {
		team.Name = *in.Name
		changed = true
	}
	if in.Description != nil && *in.Description != team.Description {
		team.Description = *in.Description
		changed = true
	}
	if in.Color != nil && *in.Color != team.Color {
		team.Color = *in.Color
		changed = true
	}
	return changed
}

// TeamMember is a user holding an active membership in a team.
type TeamMember struct {
	TeamID   uuid.UUID   `json:"-"`
	UserID   uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Avatar   null.String `json:"avatar"`
	Role     string      `json:"role"`
	JoinedAt time.Time   `json:"joinedAt"`
}

// TeamSummary is one entry of a member's team listing.
type TeamSummary struct {
	Team
	Role    string        `json:"role"`
	Members []*TeamMember `json:"members"`
}

// TeamDetail is a single team with its active members.
type TeamDetail struct {
	Team
	Members []*TeamMember `json:"members"`
}
