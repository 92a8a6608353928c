package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/interfaces/http/middleware"
	"teamhub.backend/internal/interfaces/http/response"
)

// MembershipService drives the membership state machine.
type MembershipService interface {
	Add(ctx context.Context, actor entities.Actor, teamID uuid.UUID, input *entities.AddMemberInput) (*entities.Membership, *entities.ActivityEvent, error)
	Remove(ctx context.Context, actor entities.Actor, teamID, userID uuid.UUID) (*entities.Membership, *entities.ActivityEvent, error)
	ChangeRole(ctx context.Context, teamID, userID uuid.UUID, role string) (*entities.Membership, error)
}

type MembershipHandler struct {
	members MembershipService
	events  EventDispatcher
}

func NewMembershipHandler(members MembershipService, events EventDispatcher) *MembershipHandler {
	return &MembershipHandler{members: members, events: events}
}

// AddMember adds a user, by id or email, to the team.
// POST /api/v1/teams/:id/members
func (h *MembershipHandler) AddMember(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	teamID, ok := parseIDParam(c, "id", "invalid team ID")
	if !ok {
		return
	}

	var input entities.AddMemberInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input.Email = strings.TrimSpace(input.Email)
	// the email only matters when no id is given
	if input.UserID == nil && input.Email != "" {
		if err := validateEmail(input.Email); err != nil {
			response.Error(c, domainerrors.BadRequest("invalid email"))
			return
		}
	}

	membership, event, err := h.members.Add(c.Request.Context(), *actor, teamID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.events.Dispatch(c.Request.Context(), event)

	response.Success(c, http.StatusOK, gin.H{"membership": membership}, "Member added")
}

// RemoveMember deactivates the user's membership.
// DELETE /api/v1/teams/:id/members/:userId
func (h *MembershipHandler) RemoveMember(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}
	teamID, ok := parseIDParam(c, "id", "invalid team ID")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId", "invalid user ID")
	if !ok {
		return
	}

	membership, event, err := h.members.Remove(c.Request.Context(), *actor, teamID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.events.Dispatch(c.Request.Context(), event)

	response.Success(c, http.StatusOK, gin.H{"membership": membership}, "Member removed")
}

// ChangeRole sets the role on an active membership.
// PUT /api/v1/teams/:id/members/:userId/role
func (h *MembershipHandler) ChangeRole(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "invalid team ID")
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "userId", "invalid user ID")
	if !ok {
		return
	}

	var input entities.ChangeRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		response.Error(c, domainerrors.BadRequest("role is required"))
		return
	}

	membership, err := h.members.ChangeRole(c.Request.Context(), teamID, userID, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"membership": membership}, "Role updated")
}

func validateEmail(email string) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.Var(email, "email")
	}
	return validator.New().Var(email, "email")
}
