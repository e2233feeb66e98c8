package entity

import (
	"time"

	"github.com/google/uuid"
)

// Message is append-only; rows are never edited after creation.
type Message struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}
