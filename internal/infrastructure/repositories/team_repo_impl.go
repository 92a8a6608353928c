package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/infrastructure/models"
)

type TeamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) Create(ctx context.Context, team *entities.Team) error {
	m := r.toModel(team)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return err
	}
	team.CreatedAt = m.CreatedAt
	team.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *TeamRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Team, error) {
	var m models.Team
	if err := GetDB(ctx, r.db).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

type teamWithRole struct {
	models.Team
	MemberRole string
}

func (r *TeamRepository) ListActiveForMember(ctx context.Context, userID uuid.UUID) ([]*entities.TeamSummary, error) {
	var rows []teamWithRole
	err := GetDB(ctx, r.db).
		Table("teams").
		Select("teams.*, memberships.role AS member_role").
		Joins("JOIN memberships ON memberships.team_id = teams.id").
		Where("memberships.user_id = ? AND memberships.is_active = ? AND teams.is_active = ?", userID, true, true).
		Order("teams.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	items := make([]*entities.TeamSummary, 0, len(rows))
	for i := range rows {
		items = append(items, &entities.TeamSummary{
			Team: *r.toEntity(&rows[i].Team),
			Role: rows[i].MemberRole,
		})
	}
	return items, nil
}

func (r *TeamRepository) Update(ctx context.Context, team *entities.Team) error {
	now := time.Now()
	updates := map[string]interface{}{
		"name":        team.Name,
		"description": team.Description,
		"color":       team.Color,
		"updated_at":  now,
	}

	result := GetDB(ctx, r.db).
		Model(&models.Team{}).
		Where("id = ?", team.ID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	team.UpdatedAt = now
	return nil
}

func (r *TeamRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	result := GetDB(ctx, r.db).
		Model(&models.Team{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_active":  active,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	return nil
}

func (r *TeamRepository) toEntity(m *models.Team) *entities.Team {
	return &entities.Team{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		Color:       m.Color,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (r *TeamRepository) toModel(e *entities.Team) *models.Team {
	return &models.Team{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Color:       e.Color,
		IsActive:    e.IsActive,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}
