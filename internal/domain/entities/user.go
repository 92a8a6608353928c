package entities

import (
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

// User is read-only from the team core: it is resolved, never mutated.
type User struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Avatar    null.String `json:"avatar"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Actor is the already-authenticated user invoking an operation.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// DisplayName falls back to the id when the token carried no name.
func (a Actor) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return a.ID.String()
}
