package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is one conversation thread. Title stays nil until the first
// user turn is processed, then is assigned at most once.
type ChatSession struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	Title     *string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
