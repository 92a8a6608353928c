package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/interfaces/http/middleware"
	"teamhub.backend/internal/interfaces/http/response"
	"teamhub.backend/pkg/utils"
)

// TeamService is the team lifecycle surface the handler needs.
type TeamService interface {
	Create(ctx context.Context, actor entities.Actor, input *entities.CreateTeamInput) (*entities.Team, *entities.ActivityEvent, error)
	Update(ctx context.Context, teamID uuid.UUID, input *entities.UpdateTeamInput) (*entities.Team, error)
	Deactivate(ctx context.Context, teamID uuid.UUID) error
}

// TeamQueryService is the read side used by list and detail endpoints.
type TeamQueryService interface {
	List(ctx context.Context, actorID uuid.UUID) ([]*entities.TeamSummary, error)
	Get(ctx context.Context, teamID uuid.UUID) (*entities.TeamDetail, error)
}

// EventDispatcher records activity events once the change has committed.
type EventDispatcher interface {
	Dispatch(ctx context.Context, events ...*entities.ActivityEvent)
}

type TeamHandler struct {
	teams   TeamService
	queries TeamQueryService
	events  EventDispatcher
}

func NewTeamHandler(teams TeamService, queries TeamQueryService, events EventDispatcher) *TeamHandler {
	return &TeamHandler{teams: teams, queries: queries, events: events}
}

// CreateTeam creates a team with the caller as admin.
// POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	var input entities.CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	input.Name = strings.TrimSpace(input.Name)
	input.Color = strings.TrimSpace(input.Color)
	if input.Name == "" {
		response.Error(c, domainerrors.BadRequest("name is required"))
		return
	}

	team, event, err := h.teams.Create(c.Request.Context(), *actor, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.events.Dispatch(c.Request.Context(), event)

	response.Success(c, http.StatusCreated, gin.H{"team": team}, "Team created")
}

// ListTeams returns the active teams the caller belongs to.
// GET /api/v1/teams
func (h *TeamHandler) ListTeams(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Unauthorized"))
		return
	}

	teams, err := h.queries.List(c.Request.Context(), actor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"teams": teams})
}

// GetTeam returns one team with its active members, active or not.
// GET /api/v1/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "invalid team ID")
	if !ok {
		return
	}

	team, err := h.queries.Get(c.Request.Context(), teamID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team": team})
}

// UpdateTeam changes name, description or color of an active team.
// PUT /api/v1/teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "invalid team ID")
	if !ok {
		return
	}

	var input entities.UpdateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			response.Error(c, domainerrors.BadRequest("name cannot be empty"))
			return
		}
		input.Name = &name
	}

	team, err := h.teams.Update(c.Request.Context(), teamID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"team": team}, "Team updated")
}

// DeactivateTeam soft-deletes a team that has no open tasks.
// DELETE /api/v1/teams/:id
func (h *TeamHandler) DeactivateTeam(c *gin.Context) {
	teamID, ok := parseIDParam(c, "id", "invalid team ID")
	if !ok {
		return
	}

	if err := h.teams.Deactivate(c.Request.Context(), teamID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, nil, "Team deactivated")
}

func parseIDParam(c *gin.Context, name, message string) (uuid.UUID, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		response.Error(c, domainerrors.BadRequest(message))
		return uuid.Nil, false
	}
	return id, true
}
