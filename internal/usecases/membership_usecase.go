package usecases

import (
	"context"
	"errors"
	"strings"
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

const (
	userNotFound       = "user not found"
	membershipNotFound = "membership not found"
	alreadyMember      = "user is already a member of the team"
)

// MembershipUsecase drives the membership state machine of (user, team) pairs
type MembershipUsecase struct {
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	uow            repositories.UnitOfWork
}

// NewMembershipUsecase creates a new membership usecase
func NewMembershipUsecase(
	teamRepo repositories.TeamRepository,
	membershipRepo repositories.MembershipRepository,
	userRepo repositories.UserRepository,
	uow repositories.UnitOfWork,
) *MembershipUsecase {
	return &MembershipUsecase{
		teamRepo:       teamRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		uow:            uow,
	}
}

// Add activates the target user's membership, creating the row or
// reactivating an inactive one with the new role.
func (u *MembershipUsecase) Add(ctx context.Context, actor entities.Actor, teamID uuid.UUID, input *entities.AddMemberInput) (*entities.Membership, *entities.ActivityEvent, error) {
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = entities.RoleMember
	}

	var (
		target *entities.User
		tr     *entities.MembershipTransition
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		user, err := u.resolveUser(txCtx, input)
		if err != nil {
			return err
		}

		team, err := u.teamRepo.GetByID(txCtx, teamID)
		if err != nil {
			return normalizeError(err, teamNotFound)
		}
		if !team.IsActive {
			return domainerrors.NotFound(teamNotFound)
		}

		current, err := u.membershipRepo.Get(u.uow.WithLock(txCtx), user.ID, teamID)
		if err != nil && !isNotFound(err) {
			return err
		}

		tr, err = entities.ActivateMembership(current, user.ID, teamID, role, time.Now())
		if err != nil {
			return err
		}

		if tr.Insert {
			tr.Membership.ID = utils.GenerateUUIDv7()
			if err := u.membershipRepo.Create(txCtx, tr.Membership); err != nil {
				// a concurrent add of the same pair lost the race
				if errors.Is(err, domainerrors.ErrAlreadyExists) || errors.Is(err, domainerrors.ErrWriteConflict) {
					return domainerrors.Conflict(alreadyMember)
				}
				return err
			}
		} else if err := u.membershipRepo.Update(txCtx, tr.Membership); err != nil {
			return err
		}

		target = user
		return nil
	})
	if err != nil {
		return nil, nil, normalizeError(err, membershipNotFound)
	}

	metrics.MembershipTransitions.WithLabelValues(tr.Name()).Inc()
	logger.Info(ctx, "Member added",
		zap.String("team_id", teamID.String()),
		zap.String("user_id", target.ID.String()),
		zap.String("transition", tr.Name()),
	)

	return tr.Membership, entities.NewMemberAddedEvent(actor, teamID, target, tr.Membership.UpdatedAt), nil
}

// Remove deactivates an active membership. Missing and already inactive
// memberships are both reported as not found.
func (u *MembershipUsecase) Remove(ctx context.Context, actor entities.Actor, teamID, userID uuid.UUID) (*entities.Membership, *entities.ActivityEvent, error) {
	var (
		tr         *entities.MembershipTransition
		targetName string
	)
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.membershipRepo.Get(u.uow.WithLock(txCtx), userID, teamID)
		if err != nil && !isNotFound(err) {
			return err
		}

		tr, err = entities.DeactivateMembership(current, time.Now())
		if err != nil {
			return err
		}

		targetName = userID.String()
		user, err := u.userRepo.GetByID(txCtx, userID)
		switch {
		case err == nil:
			targetName = user.Name
		case !isNotFound(err):
			return err
		}

		return u.membershipRepo.Update(txCtx, tr.Membership)
	})
	if err != nil {
		return nil, nil, normalizeError(err, membershipNotFound)
	}

	metrics.MembershipTransitions.WithLabelValues(tr.Name()).Inc()
	logger.Info(ctx, "Member removed",
		zap.String("team_id", teamID.String()),
		zap.String("user_id", userID.String()),
	)

	return tr.Membership, entities.NewMemberRemovedEvent(actor, teamID, targetName, tr.Membership.UpdatedAt), nil
}

// ChangeRole rewrites the role of an active membership. No activity event is produced.
func (u *MembershipUsecase) ChangeRole(ctx context.Context, teamID, userID uuid.UUID, role string) (*entities.Membership, error) {
	var tr *entities.MembershipTransition
	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		current, err := u.membershipRepo.Get(u.uow.WithLock(txCtx), userID, teamID)
		if err != nil && !isNotFound(err) {
			return err
		}

		tr, err = entities.ChangeMembershipRole(current, role, time.Now())
		if err != nil {
			return err
		}
		return u.membershipRepo.Update(txCtx, tr.Membership)
	})
	if err != nil {
		return nil, normalizeError(err, membershipNotFound)
	}

	metrics.MembershipTransitions.WithLabelValues("role_change").Inc()
	logger.Info(ctx, "Member role changed",
		zap.String("team_id", teamID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role),
	)
	return tr.Membership, nil
}

// resolveUser prefers the user id over the email when both are given.
func (u *MembershipUsecase) resolveUser(ctx context.Context, input *entities.AddMemberInput) (*entities.User, error) {
	var (
		user *entities.User
		err  error
	)
	switch {
	case input.UserID != nil && *input.UserID != uuid.Nil:
		user, err = u.userRepo.GetByID(ctx, *input.UserID)
	case strings.TrimSpace(input.Email) != "":
		user, err = u.userRepo.GetByEmail(ctx, strings.TrimSpace(input.Email))
	default:
		return nil, domainerrors.NotFound(userNotFound)
	}
	if err != nil {
		return nil, normalizeError(err, userNotFound)
	}
	return user, nil
}
