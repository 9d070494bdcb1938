package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByChatSessionID struct {
	ChatSessionID uuid.UUID
}

func (s ByChatSessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("chat_session_id = ?", s.ChatSessionID)
}

// TenantOwnedBy scopes a query to one tenant. Every session read or write
// outside key issuance must carry this filter.
type TenantOwnedBy struct {
	TenantID uuid.UUID
}

func (s TenantOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("tenant_id = ?", s.TenantID)
}
