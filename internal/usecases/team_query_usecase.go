package usecases

import (
	"context"

	"github.com/google/uuid"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/domain/repositories"
)

// TeamQueryUsecase assembles read-only team views
type TeamQueryUsecase struct {
	teamRepo       repositories.TeamRepository
	membershipRepo repositories.MembershipRepository
}

func NewTeamQueryUsecase(teamRepo repositories.TeamRepository, membershipRepo repositories.MembershipRepository) *TeamQueryUsecase {
	return &TeamQueryUsecase{teamRepo: teamRepo, membershipRepo: membershipRepo}
}

// List returns the actor's active teams ordered by name, each with the
// actor's role and the team's active members.
func (u *TeamQueryUsecase) List(ctx context.Context, actorID uuid.UUID) ([]*entities.TeamSummary, error) {
	teams, err := u.teamRepo.ListActiveForMember(ctx, actorID)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	if len(teams) == 0 {
		return []*entities.TeamSummary{}, nil
	}

	ids := make([]uuid.UUID, 0, len(teams))
	for _, team := range teams {
		ids = append(ids, team.ID)
	}
	members, err := u.membershipRepo.ListActiveMembers(ctx, ids...)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}

	byTeam := groupMembers(members)
	for _, team := range teams {
		team.Members = byTeam[team.ID]
		if team.Members == nil {
			team.Members = []*entities.TeamMember{}
		}
	}
	return teams, nil
}

// Get returns the team whatever its active flag, with its active members.
func (u *TeamQueryUsecase) Get(ctx context.Context, teamID uuid.UUID) (*entities.TeamDetail, error) {
	team, err := u.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return nil, normalizeError(err, teamNotFound)
	}

	members, err := u.membershipRepo.ListActiveMembers(ctx, teamID)
	if err != nil {
		return nil, domainerrors.Persistence(err)
	}
	return &entities.TeamDetail{Team: *team, Members: members}, nil
}

func groupMembers(members []*entities.TeamMember) map[uuid.UUID][]*entities.TeamMember {
	byTeam := make(map[uuid.UUID][]*entities.TeamMember)
	for _, m := range members {
		byTeam[m.TeamID] = append(byTeam[m.TeamID], m)
	}
	return byTeam
}
