package models

import (
	"time"

	"github.com/google/uuid"
)

// Membership rows are unique per (user_id, team_id) and reused on reactivation.
type Membership struct {
	ID        uuid.UUID `gorm:"type:char(36);primaryKey"`
	UserID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_memberships_user_team,priority:1"`
	TeamID    uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_memberships_user_team,priority:2;index"`
	Role      string    `gorm:"type:varchar(50);not null"`
	IsActive  bool      `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (Membership) TableName() string { return "memberships" }
