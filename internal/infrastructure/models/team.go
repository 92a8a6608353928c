package models

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Name        string    `gorm:"type:varchar(120);not null;index"`
	Description string    `gorm:"type:text"`
	Color       string    `gorm:"type:varchar(20)"`
	IsActive    bool      `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Team) TableName() string { return "teams" }
