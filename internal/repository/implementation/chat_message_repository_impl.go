package implementation

import (
	"context"
	"errors"

	"ai-chatrelay-be/internal/entity"
	"ai-chatrelay-be/internal/mapper"
	"ai-chatrelay-be/internal/model"
	"ai-chatrelay-be/internal/repository/contract"
	"ai-chatrelay-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatMessageRepository(db *gorm.DB) contract.ChatMessageRepository {
	return &ChatMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatMessageRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatMessageRepositoryImpl) Create(ctx context.Context, message *entity.ChatMessage) error {
	m := r.mapper.ChatMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.ChatMessageToEntity(m)
	return nil
}

func (r *ChatMessageRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatMessage, error) {
	var m model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ChatMessageToEntity(&m), nil
}

func (r *ChatMessageRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var models []*model.ChatMessage
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatMessage, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatMessageToEntity(m)
	}
	return entities, nil
}

func (r *ChatMessageRepositoryImpl) FindLatestBySessionIds(ctx context.Context, sessionIds []uuid.UUID) (map[uuid.UUID]*entity.ChatMessage, error) {
	if len(sessionIds) == 0 {
		return map[uuid.UUID]*entity.ChatMessage{}, nil
	}

	// One row per session: the message with the highest seq.
	subQuery := r.db.Table("chat_messages").
		Select("chat_session_id, MAX(seq) AS max_seq").
		Where("chat_session_id IN ?", sessionIds).
		Group("chat_session_id")

	var models []*model.ChatMessage
	err := r.db.WithContext(ctx).
		Joins("JOIN (?) latest ON chat_messages.chat_session_id = latest.chat_session_id AND chat_messages.seq = latest.max_seq", subQuery).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	latest := make(map[uuid.UUID]*entity.ChatMessage, len(models))
	for _, m := range models {
		latest[m.ChatSessionId] = r.mapper.ChatMessageToEntity(m)
	}
	return latest, nil
}

func (r *ChatMessageRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatMessage{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
