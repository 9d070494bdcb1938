package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	SenderUser = "user"
	SenderBot  = "bot"
)

// ChatMessage is one immutable turn. Seq totally orders turns within a
// session; the store never updates or deletes a message.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Sender        string
	Content       string
	Seq           int64
	CreatedAt     time.Time
}
