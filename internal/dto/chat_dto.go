package dto

import (
	"time"

	"github.com/google/uuid"
)

type SessionResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

type ListSessionsRequest struct {
	Page     int `query:"page" validate:"min=0"`
	PageSize int `query:"page_size" validate:"min=0,max=50"`
}

type CreateSessionRequest struct {
	Title string `json:"title" validate:"required,min=1,max=200"`
}

type GetMessagesRequest struct {
	Limit int `query:"limit" validate:"min=0,max=500"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	SessionId uuid.UUID `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type SendMessageRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Content   string    `json:"content" validate:"required,min=1,max=4000"`
}

// SendMessageResponse returns both persisted rows: the caller's message and
// the assistant reply (or the canned degrade text standing in for it).
type SendMessageResponse struct {
	User      *MessageResponse `json:"user"`
	Assistant *MessageResponse `json:"assistant"`
}

// PublishChatActivityMessage is the in-process event payload emitted after
// a completed exchange; the consumer bumps the session's updated_at.
type PublishChatActivityMessage struct {
	SessionId uuid.UUID `json:"session_id"`
}
