package entities

import (
	"time"

	"github.com/google/uuid"
	domainerrors "teamhub.backend/internal/domain/errors"
)

// Well-known membership roles. Other role strings are stored as given.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Membership binds a user to a team. One row per (user, team) is reused
// across activate/deactivate cycles.
type Membership struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	TeamID    uuid.UUID `json:"teamId"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AddMemberInput identifies the target by id or email; id wins when both are set.
type AddMemberInput struct {
	UserID *uuid.UUID `json:"userId"`
	Email  string     `json:"email"`
	Role   string     `json:"role"`
}

type ChangeRoleInput struct {
	Role string `json:"role" binding:"required"`
}

// MembershipState is the lifecycle state of a (user, team) pair.
type MembershipState int

const (
	MembershipNone MembershipState = iota
	MembershipActive
	MembershipInactive
)

func (s MembershipState) String() string {
	switch s {
	case MembershipActive:
		return "active"
	case MembershipInactive:
		return "inactive"
	default:
		return "none"
	}
}

// StateOf maps a stored row (nil when absent) to its lifecycle state.
func StateOf(m *Membership) MembershipState {
	switch {
	case m == nil:
		return MembershipNone
	case m.IsActive:
		return MembershipActive
	default:
		return MembershipInactive
	}
}

// MembershipTransition is the outcome of applying an action to a pair.
// Insert is set only when leaving MembershipNone.
type MembershipTransition struct {
	From       MembershipState
	To         MembershipState
	Membership *Membership
	Insert     bool
}

// Name labels the transition for logs and metrics, e.g. "none->active".
func (t *MembershipTransition) Name() string {
	return t.From.String() + "->" + t.To.String()
}

// ActivateMembership moves a pair into Active(role). An inactive row is
// reused with its CreatedAt preserved; an active one is a conflict.
func ActivateMembership(current *Membership, userID, teamID uuid.UUID, role string, now time.Time) (*MembershipTransition, error) {
	switch StateOf(current) {
	case MembershipActive:
		return nil, domainerrors.Conflict("user is already a member of the team")
	case MembershipInactive:
		next := *current
		next.IsActive = true
		next.Role = role
		next.UpdatedAt = now
		return &MembershipTransition{From: MembershipInactive, To: MembershipActive, Membership: &next}, nil
	default:
		return &MembershipTransition{
			From: MembershipNone,
			To:   MembershipActive,
			Membership: &Membership{
				UserID:    userID,
				TeamID:    teamID,
				Role:      role,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			},
			Insert: true,
		}, nil
	}
}

// DeactivateMembership moves Active(role) to Inactive(role).
func DeactivateMembership(current *Membership, now time.Time) (*MembershipTransition, error) {
	if StateOf(current) != MembershipActive {
		return nil, domainerrors.NotFound("membership not found")
	}
	next := *current
	next.IsActive = false
	next.UpdatedAt = now
	return &MembershipTransition{From: MembershipActive, To: MembershipInactive, Membership: &next}, nil
}

// ChangeMembershipRole rewrites the role of an active row. It never creates one.
func ChangeMembershipRole(current *Membership, role string, now time.Time) (*MembershipTransition, error) {
	if StateOf(current) != MembershipActive {
		return nil, domainerrors.NotFound("membership not found")
	}
	next := *current
	next.Role = role
	next.UpdatedAt = now
	return &MembershipTransition{From: MembershipActive, To: MembershipActive, Membership: &next}, nil
}
