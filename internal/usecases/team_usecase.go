package usecases

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/domain/repositories"
	"teamhub.backend/pkg/logger"
	"teamhub.backend/pkg/metrics"
	"teamhub.backend/pkg/utils"
)

const teamNotFound = "team not found"

// TeamUsecase owns team creation, mutation and guarded deactivation
type TeamUsecase struct {
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	taskRepo       repositories.TaskRepository
	uow            repositories.UnitOfWork
}

// NewTeamUsecase creates a new team usecase
func NewTeamUsecase(
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	taskRepo repositories.TaskRepository,
	uow repositories.UnitOfWork,
) *TeamUsecase {
	return &TeamUsecase{
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		taskRepo:       taskRepo,
		uow:            uow,
	}
}

// Create stores the team and the creator's admin membership in one unit of
// work and returns the member_added event describing the creation.
func (u *TeamUsecase) Create(ctx context.Context, actor entities.Actor, input *entities.CreateTeamInput) (*entities.Team, *entities.ActivityEvent, error) {
	if actor.ID == uuid.Nil {
		return nil, nil, domainerrors.BadRequest("actor is required")
	}

	now := time.Now()
	team := &entities.Team{
		ID:          utils.GenerateUUIDv7(),
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	admin, err := entities.ActivateMembership(nil, actor.ID, team.ID, entities.RoleAdmin, now)
	if err != nil {
		return nil, nil, err
	}
	admin.Membership.ID = utils.GenerateUUIDv7()

	err = u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.teamRepo.Create(txCtx, team); err != nil {
			return err
		}
		return u.membershipRepo.Create(txCtx, admin.Membership)
	})
	if err != nil {
		logger.Error(ctx, "Failed to create team", zap.String("name", input.Name), zap.Error(err))
		metrics.TeamLifecycle.WithLabelValues("create", "error").Inc()
		return nil, nil, domainerrors.Persistence(err)
	}

	metrics.TeamLifecycle.WithLabelValues("create", "ok").Inc()
	metrics.MembershipTransitions.WithLabelValues(admin.Name()).Inc()
	logger.Info(ctx, "Team created", zap.String("team_id", team.ID.String()))

	return team, entities.NewTeamCreatedEvent(actor, team, now), nil
}

// Update applies a partial update. Deactivated teams are reported as not found.
func (u *TeamUsecase) Update(ctx context.Context, teamID uuid.UUID, input *entities.UpdateTeamInput) (*entities.Team, error) {
	var team *entities.Team
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.teamRepo.GetByID(u.uow.WithLock(txCtx), teamID)
		if err != nil {
			return err
		}
		if !current.IsActive {
			return domainerrors.NotFound(teamNotFound)
		}
		if input.Apply(current) {
			if err := u.teamRepo.Update(txCtx, current); err != nil {
				return err
			}
		}
		team = current
		return nil
	})
	if err != nil {
		return nil, normalizeError(err, teamNotFound)
	}
	return team, nil
}

// Deactivate soft-deletes the team. It is refused while the team still has
// pending or in-progress tasks; memberships are left as they are.
func (u *TeamUsecase) Deactivate(ctx context.Context, teamID uuid.UUID) error {
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		team, err := u.teamRepo.GetByID(u.uow.WithLock(txCtx), teamID)
		if err != nil {
			return err
		}

		open, err := u.taskRepo.CountOpenByTeam(txCtx, teamID)
		if err != nil {
			return err
		}
		if open > 0 {
			return domainerrors.Conflict("cannot deactivate a team with pending or in-progress tasks")
		}

		if !team.IsActive {
			return nil
		}
		return u.teamRepo.SetActive(txCtx, teamID, false)
	})
	if err != nil {
		err = normalizeError(err, teamNotFound)
		logger.Warn(ctx, "Team deactivation refused", zap.String("team_id", teamID.String()), zap.Error(err))
		metrics.TeamLifecycle.WithLabelValues("deactivate", "refused").Inc()
		return err
	}

	metrics.TeamLifecycle.WithLabelValues("deactivate", "ok").Inc()
	logger.Info(ctx, "Team deactivated", zap.String("team_id", teamID.String()))
	return nil
}
