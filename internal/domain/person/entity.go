package person

import (
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID             uuid.UUID
	GivenName      string
	FamilyName     string
	OrganizationID uuid.UUID
	CreatedAt      time.Time
}
