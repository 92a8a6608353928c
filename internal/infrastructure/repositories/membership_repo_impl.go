package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/infrastructure/models"
)

type MembershipRepository struct {
	db *gorm.DB
}

func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

func (r *MembershipRepository) Get(ctx context.Context, userID, teamID uuid.UUID) (*entities.Membership, error) {
	var m models.Membership
	if err := GetDB(ctx, r.db).
		Where("user_id = ? AND team_id = ?", userID, teamID).
		First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return r.toEntity(&m), nil
}

func (r *MembershipRepository) Create(ctx context.Context, membership *entities.Membership) error {
	m := r.toModel(membership)
	if err := GetDB(ctx, r.db).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainerrors.ErrAlreadyExists
		}
		return translateContention(err)
	}
	membership.CreatedAt = m.CreatedAt
	membership.UpdatedAt = m.UpdatedAt
	return nil
}

// Update persists role and active flag. created_at is never rewritten.
func (r *MembershipRepository) Update(ctx context.Context, membership *entities.Membership) error {
	updatedAt := membership.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	result := GetDB(ctx, r.db).
		Model(&models.Membership{}).
		Where("id = ?", membership.ID).
		Updates(map[string]interface{}{
			"role":       membership.Role,
			"is_active":  membership.IsActive,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrNotFound
	}
	membership.UpdatedAt = updatedAt
	return nil
}

type memberRow struct {
	TeamID   uuid.UUID
	UserID   uuid.UUID
	Name     string
	Email    string
	Avatar   *string
	Role     string
	JoinedAt time.Time
}

func (r *MembershipRepository) ListActiveMembers(ctx context.Context, teamIDs ...uuid.UUID) ([]*entities.TeamMember, error) {
	if len(teamIDs) == 0 {
		return []*entities.TeamMember{}, nil
	}

	var rows []memberRow
	err := GetDB(ctx, r.db).
		Table("memberships").
		Select("memberships.team_id, users.id AS user_id, users.name, users.email, users.avatar, memberships.role, memberships.created_at AS joined_at").
		Joins("JOIN users ON users.id = memberships.user_id AND users.deleted_at IS NULL").
		Where("memberships.team_id IN ? AND memberships.is_active = ?", teamIDs, true).
		Order("memberships.created_at ASC, users.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	members := make([]*entities.TeamMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, &entities.TeamMember{
			TeamID:   row.TeamID,
			UserID:   row.UserID,
			Name:     row.Name,
			Email:    row.Email,
			Avatar:   null.StringFromPtr(row.Avatar),
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
		})
	}
	return members, nil
}

func (r *MembershipRepository) toEntity(m *models.Membership) *entities.Membership {
	return &entities.Membership{
		ID:        m.ID,
		UserID:    m.UserID,
		TeamID:    m.TeamID,
		Role:      m.Role,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (r *MembershipRepository) toModel(e *entities.Membership) *models.Membership {
	return &models.Membership{
		ID:        e.ID,
		UserID:    e.UserID,
		TeamID:    e.TeamID,
		Role:      e.Role,
		IsActive:  e.IsActive,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
