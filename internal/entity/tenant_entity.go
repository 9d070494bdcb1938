package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is an API-key holder. Every session and message in the system is
// reachable only through the tenant that owns it.
type Tenant struct {
	Id        uuid.UUID
	Token     string
	Name      string
	Active    bool
	CreatedAt time.Time
}
