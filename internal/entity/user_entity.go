package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	Name         *string
	PasswordHash string
	CreatedAt    time.Time
}
