package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatSession is owned by one actor. UserId is the opaque actor id, which
// is either a real user uuid or an anonymous cookie uuid.
type ChatSession struct {
	Id        uuid.UUID
	UserId    string
	Title     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
