package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatMessage struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	Sender        string    `gorm:"type:varchar(50);not null"`
	Content       string    `gorm:"type:text;not null"`
	Seq           int64     `gorm:"autoIncrement;uniqueIndex"` // strict total order across appends
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
