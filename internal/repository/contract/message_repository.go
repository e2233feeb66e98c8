package contract

import (
	"context"

	"github.com/google/uuid"
	"github.com/visheshc14/career-counselor-chat/internal/entity"
	"github.com/visheshc14/career-counselor-chat/internal/repository/specification"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	DeleteBySessionIDs(ctx context.Context, sessionIds []uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
