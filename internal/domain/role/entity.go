package role

import (
	"time"

	"github.com/google/uuid"
)

type Role struct {
	ID       uuid.UUID
	PersonID *uuid.UUID
	TeamID   uuid.UUID
	TitleEn  string
	TitleFr  string
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Vacant roles have no occupying person.
func (r Role) Vacant() bool {
	return r.PersonID == nil || *r.PersonID == uuid.Nil
}

func (r Role) Open() bool {
	return r.Active && r.Vacant()
}
