package utils

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

var newUUIDv7 = uuid.NewV7

// ErrNilID is returned by ParseID for the all-zero uuid.
var ErrNilID = errors.New("id must not be the nil uuid")

// GenerateUUIDv7 returns a time-ordered id, or a random one if the clock source fails.
func GenerateUUIDv7() uuid.UUID {
	id, err := newUUIDv7()
	if err != nil {
		return uuid.New()
	}
	return id
}

// ParseID parses a path or flag id. Surrounding whitespace is ignored.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, ErrNilID
	}
	return id, nil
}
