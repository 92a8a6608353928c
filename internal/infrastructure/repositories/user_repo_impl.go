package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"gorm.io/gorm"
	"teamhub.backend/internal/domain/entities"
	domainerrors "teamhub.backend/internal/domain/errors"
	"teamhub.backend/internal/infrastructure/models"
)

// UserRepository resolves users for membership changes. It never writes.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	return r.first(GetDB(ctx, r.db).Where("id = ?", id))
}

// GetByEmail matches case-insensitively after trimming.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return nil, domainerrors.ErrNotFound
	}
	return r.first(GetDB(ctx, r.db).Where("LOWER(email) = ?", normalized))
}

func (r *UserRepository) first(q *gorm.DB) (*entities.User, error) {
	var m models.User
	if err := q.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNotFound
		}
		return nil, err
	}
	return &entities.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Avatar:    null.StringFromPtr(m.Avatar),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}, nil
}
