package contract

import (
	"context"

	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatSessionRepository interface {
	Create(ctx context.Context, session *entity.ChatSession) error
	// UpdateTitleIfUnset assigns a title only when the session has none yet.
	// Returns false when another writer got there first.
	UpdateTitleIfUnset(ctx context.Context, id uuid.UUID, title string) (bool, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
