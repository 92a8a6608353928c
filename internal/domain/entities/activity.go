package entities

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ActivityType represents the kind of an activity feed entry
type ActivityType string

const (
	ActivityMemberAdded   ActivityType = "member_added"
	ActivityMemberRemoved ActivityType = "member_removed"
)

// ActivityEvent is an append-only audit record of a membership change.
type ActivityEvent struct {
	ID          uuid.UUID    `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	ActorID     uuid.UUID    `json:"actorId"`
	TeamID      uuid.UUID    `json:"teamId"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func NewTeamCreatedEvent(actor Actor, team *Team, at time.Time) *ActivityEvent {
	return &ActivityEvent{
		Type:        ActivityMemberAdded,
		Description: fmt.Sprintf("%s created the team %s", actor.DisplayName(), team.Name),
		ActorID:     actor.ID,
		TeamID:      team.ID,
		CreatedAt:   at,
	}
}

func NewMemberAddedEvent(actor Actor, teamID uuid.UUID, target *User, at time.Time) *ActivityEvent {
	return &ActivityEvent{
		Type:        ActivityMemberAdded,
		Description: fmt.Sprintf("%s added %s to the team", actor.DisplayName(), target.Name),
		ActorID:     actor.ID,
		TeamID:      teamID,
		CreatedAt:   at,
	}
}

// NewMemberRemovedEvent takes the target's display name since the user row may be gone.
func NewMemberRemovedEvent(actor Actor, teamID uuid.UUID, targetName string, at time.Time) *ActivityEvent {
	return &ActivityEvent{
		Type:        ActivityMemberRemoved,
		Description: fmt.Sprintf("%s removed %s from the team", actor.DisplayName(), targetName),
		ActorID:     actor.ID,
		TeamID:      teamID,
		CreatedAt:   at,
	}
}
