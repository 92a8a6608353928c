package usecases_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/infrastructure/audit"
	"teamhub.backend/internal/infrastructure/models"
	"teamhub.backend/internal/infrastructure/repositories"
	"teamhub.backend/internal/usecases"
)

type scenario struct {
	db         *gorm.DB
	teams      *usecases.TeamUsecase
	members    *usecases.MembershipUsecase
	queries    *usecases.TeamQueryUsecase
	creator    entities.Actor
	creatorRow *models.User
}

func newScenario(t *testing.T) *scenario {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	teamRepo := repositories.NewTeamRepository(db)
	membershipRepo := repositories.NewMembershipRepository(db)
	userRepo := repositories.NewUserRepository(db)
	taskRepo := repositories.NewTaskRepository(db)
	uow := repositories.NewUnitOfWork(db)

	s := &scenario{
		db:      db,
		teams:   usecases.NewTeamUsecase(teamRepo, membershipRepo, taskRepo, uow),
		members: usecases.NewMembershipUsecase(teamRepo, membershipRepo, userRepo, uow),
		queries: usecases.NewTeamQueryUsecase(teamRepo, membershipRepo),
	}
	s.creatorRow = s.seedUser(t, "Ana", "ana@example.com")
	s.creator = entities.Actor{ID: s.creatorRow.ID, Name: s.creatorRow.Name}
	return s
}

func (s *scenario) seedUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.New(), Name: name, Email: email}
	require.NoError(t, s.db.Create(u).Error)
	return u
}

func (s *scenario) seedTask(t *testing.T, teamID uuid.UUID, status entities.TaskStatus) {
	t.Helper()
	require.NoError(t, s.db.Create(&models.Task{ID: uuid.New(), TeamID: teamID, Title: "t", Status: string(status)}).Error)
}

func (s *scenario) membershipRows(t *testing.T, userID, teamID uuid.UUID) []models.Membership {
	t.Helper()
	var rows []models.Membership
	require.NoError(t, s.db.Where("user_id = ? AND team_id = ?", userID, teamID).Find(&rows).Error)
	return rows
}

func TestScenario_CreateTeamGrantsAdminAndLists(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	team, event, err := s.teams.Create(ctx, s.creator, &entities.CreateTeamInput{Name: "Sprint"})
	require.NoError(t, err)
	require.Equal(t, entities.ActivityMemberAdded, event.Type)

	rows := s.membershipRows(t, s.creator.ID, team.ID)
	require.Len(t, rows, 1)
	require.Equal(t, entities.RoleAdmin, rows[0].Role)
	require.True(t, rows[0].IsActive)

	items, err := s.queries.List(ctx, s.creator.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "Sprint", items[0].Name)
	require.Equal(t, entities.RoleAdmin, items[0].Role)
	require.Len(t, items[0].Members, 1)
	require.Equal(t, "Ana", items[0].Members[0].Name)
}

func TestScenario_CreateRollsBackWhenMembershipWriteFails(t *testing.T) {
	s := newScenario(t)
	require.NoError(t, s.db.Migrator().DropTable(&models.Membership{}))

	_, _, err := s.teams.Create(context.Background(), s.creator, &entities.CreateTeamInput{Name: "Orphan"})
	require.ErrorIs(t, err, domainerrors.ErrPersistence)

	var count int64
	require.NoError(t, s.db.Model(&models.Team{}).Count(&count).Error)
	require.Zero(t, count, "team row must not survive a failed admin membership insert")
}

func TestScenario_DeactivateBlockedByOpenTasks(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()

	team, _, err := s.teams.Create(ctx, s.creator, &entities.CreateTeamInput{Name: "Sprint", Color: "#f00"})
	require.NoError(t, err)
	s.seedTask(t, team.ID, entities.TaskStatusPending)
	s.seedTask(t, team.ID, entities.TaskStatusPending)

	err = s.teams.Deactivate(ctx, team.ID)
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	detail, err := s.queries.Get(ctx, team.ID)
	require.NoError(t, err)
	require.True(t, detail.IsActive)

	require.NoError(t, s.db.Model(&models.Task{}).Where("team_id = ?", team.ID).Update("status", string(entities.TaskStatusDone)).Error)
	require.NoError(t, s.teams.Deactivate(ctx, team.ID))

	detail, err = s.queries.Get(ctx, team.ID)
	require.NoError(t, err, "inactive teams stay reachable by id")
	require.False(t, detail.IsActive)
	require.Equal(t, "Sprint", detail.Name)
	require.Equal(t, "#f00", detail.Color)
	require.Len(t, detail.Members, 1, "memberships are untouched by deactivation")

	items, err := s.queries.List(ctx, s.creator.ID)
	require.NoError(t, err)
	require.Empty(t, items)

	name := "Renamed"
	_, err = s.teams.Update(ctx, team.ID, &entities.UpdateTeamInput{Name: &name})
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestScenario_AddRemoveAddReusesRow(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()
	luis := s.seedUser(t, "Luis", "luis@example.com")

	team, _, err := s.teams.Create(ctx, s.creator, &entities.CreateTeamInput{Name: "Sprint"})
	require.NoError(t, err)

	first, _, err := s.members.Add(ctx, s.creator, team.ID, &entities.AddMemberInput{UserID: &luis.ID, Role: entities.RoleMember})
	require.NoError(t, err)

	_, _, err = s.members.Add(ctx, s.creator, team.ID, &entities.AddMemberInput{Email: luis.Email})
	require.ErrorIs(t, err, domainerrors.ErrConflict)

	_, removed, err := s.members.Remove(ctx, s.creator, team.ID, luis.ID)
	require.NoError(t, err)
	require.Equal(t, "Ana removed Luis from the team", removed.Description)

	_, _, err = s.members.Remove(ctx, s.creator, team.ID, luis.ID)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)
	_, err = s.members.ChangeRole(ctx, team.ID, luis.ID, entities.RoleAdmin)
	require.ErrorIs(t, err, domainerrors.ErrNotFound)

	again, _, err := s.members.Add(ctx, s.creator, team.ID, &entities.AddMemberInput{UserID: &luis.ID, Role: entities.RoleAdmin})
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)

	rows := s.membershipRows(t, luis.ID, team.ID)
	require.Len(t, rows, 1)
	require.True(t, rows[0].IsActive)
	require.Equal(t, entities.RoleAdmin, rows[0].Role)
	require.Equal(t, first.CreatedAt.Unix(), rows[0].CreatedAt.Unix(), "createdAt is preserved on reactivation")
}

func TestScenario_ListHidesInactiveMembership(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()
	luis := s.seedUser(t, "Luis", "luis@example.com")

	team, _, err := s.teams.Create(ctx, s.creator, &entities.CreateTeamInput{Name: "Sprint"})
	require.NoError(t, err)
	_, _, err = s.members.Add(ctx, s.creator, team.ID, &entities.AddMemberInput{UserID: &luis.ID})
	require.NoError(t, err)

	items, err := s.queries.List(ctx, luis.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, entities.RoleMember, items[0].Role)

	_, _, err = s.members.Remove(ctx, s.creator, team.ID, luis.ID)
	require.NoError(t, err)

	items, err = s.queries.List(ctx, luis.ID)
	require.NoError(t, err)
	require.Empty(t, items)

	detail, err := s.queries.Get(ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, detail.Members, 1)
	require.Equal(t, s.creator.ID, detail.Members[0].UserID)
}

func TestScenario_ChangeRoleKeepsSingleRow(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()
	luis := s.seedUser(t, "Luis", "luis@example.com")

	team, _, err := s.teams.Create(ctx, s.creator, &entities.CreateTeamInput{Name: "Sprint"})
	require.NoError(t, err)
	_, _, err = s.members.Add(ctx, s.creator, team.ID, &entities.AddMemberInput{UserID: &luis.ID})
	require.NoError(t, err)

	changed, err := s.members.ChangeRole(ctx, team.ID, luis.ID, "owner")
	require.NoError(t, err)
	require.Equal(t, "owner", changed.Role)
	require.Len(t, s.membershipRows(t, luis.ID, team.ID), 1)
}

type parkedEvents struct {
	items []*entities.ActivityEvent
}

func (q *parkedEvents) Push(_ context.Context, e *entities.ActivityEvent) error {
	q.items = append(q.items, e)
	return nil
}

func (q *parkedEvents) Pop(context.Context) (*entities.ActivityEvent, error) {
	if len(q.items) == 0 {
		return nil, nil
	}
	e := q.items[0]
	q.items = q.items[1:]
	return e, nil
}

func (q *parkedEvents) Len(context.Context) (int64, error) { return int64(len(q.items)), nil }

func TestScenario_AuditFailureKeepsCommittedMembership(t *testing.T) {
	s := newScenario(t)
	ctx := context.Background()
	luis := s.seedUser(t, "Luis", "luis@example.com")
	queue := &parkedEvents{}
	dispatcher := audit.NewDispatcher(repositories.NewActivityRepository(s.db), queue)

	team, created, err := s.teams.Create(ctx, s.creator, &entities.CreateTeamInput{Name: "Sprint"})
	require.NoError(t, err)
	dispatcher.Dispatch(ctx, created)

	require.NoError(t, s.db.Migrator().DropTable(&models.Activity{}))
	_, added, err := s.members.Add(ctx, s.creator, team.ID, &entities.AddMemberInput{UserID: &luis.ID})
	require.NoError(t, err)
	dispatcher.Dispatch(ctx, added)

	rows := s.membershipRows(t, luis.ID, team.ID)
	require.Len(t, rows, 1)
	require.True(t, rows[0].IsActive)
	require.Len(t, queue.items, 1)
	require.Equal(t, "Ana added Luis to the team", queue.items[0].Description)

	require.NoError(t, s.db.AutoMigrate(&models.Activity{}))
	n, err := dispatcher.Replay(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	var stored []models.Activity
	require.NoError(t, s.db.Where("team_id = ?", team.ID).Find(&stored).Error)
	require.Len(t, stored, 1)
	require.Equal(t, added.ID, stored[0].ID)
	require.Equal(t, string(entities.ActivityMemberAdded), stored[0].Type)
}
