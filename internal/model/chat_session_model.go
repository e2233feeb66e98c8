package model

import (
	"time"

	"github.com/google/uuid"
)

type ChatSession struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	// Opaque actor id: real user uuid or anonymous cookie value. Kept as
	// text so both forms share one column.
	UserId    string    `gorm:"type:text;not null;index:cs_user_idx"`
	Title     string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:cs_created_idx"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
