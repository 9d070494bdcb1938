package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListSessionsQuery struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=200"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

type StartChatRequest struct {
	Message string `json:"message" validate:"required"`
}

type SendChatRequest struct {
	ChatSessionId uuid.UUID `json:"session_id" validate:"required"`
	Message       string    `json:"message" validate:"required"`
}

type ChatMessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MessagePreview is the most recent message attached to a session listing.
type MessagePreview struct {
	Sender    string    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SessionResponse struct {
	Id          uuid.UUID       `json:"id"`
	Title       *string         `json:"title"`
	CreatedAt   time.Time       `json:"created_at"`
	LastMessage *MessagePreview `json:"last_message,omitempty"`
}

type StartChatResponse struct {
	Session *SessionResponse     `json:"session"`
	Reply   *ChatMessageResponse `json:"reply"`
}
