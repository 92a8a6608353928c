package models

import (
	"time"

	"github.com/google/uuid"
)

type Activity struct {
	ID          uuid.UUID `gorm:"type:char(36);primaryKey"`
	Type        string    `gorm:"type:varchar(50);not null"`
	Description string    `gorm:"type:text;not null"`
	UserID      uuid.UUID `gorm:"type:char(36);not null"`
	TeamID      uuid.UUID `gorm:"type:char(36);not null;index"`
	CreatedAt   time.Time
}

func (Activity) TableName() string { return "activities" }

// All lists every model owned by this service, in migration order.
func All() []interface{} {
	return []interface{}{&User{}, &Team{}, &Membership{}, &Task{}, &Activity{}}
}
