package contract

import (
	"context"

	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatMessageRepository interface {
	Create(ctx context.Context, message *entity.ChatMessage) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error)
	// FindLatestBySessionIds returns the single most recent message per
	// session, keyed by session id. A display convenience for listings.
	FindLatestBySessionIds(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]*entity.ChatMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
