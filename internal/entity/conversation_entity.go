package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id        uuid.UUID
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}

// Message is one entry in a conversation's append-only log.
// Within a conversation, (CreatedAt, Id) defines the total order.
type Message struct {
	Id             uuid.UUID
	ConversationId uuid.UUID
	Content        string
	Role           string
	CreatedAt      time.Time
}
