package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/constant"
	"github.com/visheshc14/career-counselor-chat/internal/dto"
	"github.com/visheshc14/career-counselor-chat/internal/entity"
	"github.com/visheshc14/career-counselor-chat/internal/pkg/logger"
	"github.com/visheshc14/career-counselor-chat/internal/pkg/serverutils"
	"github.com/visheshc14/career-counselor-chat/internal/ratelimit"
	"github.com/visheshc14/career-counselor-chat/internal/repository/specification"
	"github.com/visheshc14/career-counselor-chat/internal/repository/unitofwork"

	"github.com/google/uuid"
)

const (
	defaultPageSize    = 20
	defaultHistoryTake = 200
)

// Completer is the slice of the model gateway the pipeline depends on. It
// returns text unconditionally; degradation happens inside the gateway.
type Completer interface {
	Complete(ctx context.Context, prompt string) string
}

type IChatService interface {
	ListSessions(ctx context.Context, actor entity.Actor, req *dto.ListSessionsRequest) ([]*dto.SessionResponse, error)
	CreateSession(ctx context.Context, actor entity.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	WipeAndCreate(ctx context.Context, actor entity.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	GetMessages(ctx context.Context, actor entity.Actor, sessionId uuid.UUID, limit int) ([]*dto.MessageResponse, error)
	SendMessage(ctx context.Context, actor entity.Actor, clientIP string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
}

type chatService struct {
	uowFactory unitofwork.RepositoryFactory
	admitter   ratelimit.Admitter
	gateway    Completer
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	admitter ratelimit.Admitter,
	gateway Completer,
	publisher IPublisherService,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory: uowFactory,
		admitter:   admitter,
		gateway:    gateway,
		publisher:  publisher,
		logger:     sysLogger,
	}
}

func (s *chatService) ListSessions(ctx context.Context, actor entity.Actor, req *dto.ListSessionsRequest) ([]*dto.SessionResponse, error) {
	if actor.IsZero() {
		return nil, serverutils.Unauthorized("no actor identity resolvable")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.OwnedBy{ActorID: actor.Id},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: pageSize, Offset: (page - 1) * pageSize},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.SessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		response = append(response, sessionToDTO(sess))
	}
	return response, nil
}

func (s *chatService) CreateSession(ctx context.Context, actor entity.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if actor.IsZero() {
		return nil, serverutils.Unauthorized("no actor identity resolvable")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    actor.Id,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return sessionToDTO(session), nil
}

// WipeAndCreate replaces the actor's whole history with one fresh session.
// Messages go before sessions inside the transaction; the foreign key
// rejects the reverse order.
func (s *chatService) WipeAndCreate(ctx context.Context, actor entity.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	if actor.IsZero() {
		return nil, serverutils.Unauthorized("no actor identity resolvable")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	existing, err := uow.ChatSessionRepository().FindAll(ctx, specification.OwnedBy{ActorID: actor.Id})
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(existing))
	for i, sess := range existing {
		ids[i] = sess.Id
	}

	if len(ids) > 0 {
		if err := uow.MessageRepository().DeleteBySessionIDs(ctx, ids); err != nil {
			return nil, err
		}
		if err := uow.ChatSessionRepository().DeleteByIDs(ctx, ids); err != nil {
			return nil, err
		}
	}

	fresh := &entity.ChatSession{
		Id:        uuid.New(),
		UserId:    actor.Id,
		Title:     strings.TrimSpace(req.Title),
		CreatedAt: time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, fresh); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return sessionToDTO(fresh), nil
}

func (s *chatService) GetMessages(ctx context.Context, actor entity.Actor, sessionId uuid.UUID, limit int) ([]*dto.MessageResponse, error) {
	if actor.IsZero() {
		return nil, serverutils.Unauthorized("no actor identity resolvable")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.assertOwnsSession(ctx, uow, actor, sessionId); err != nil {
		return nil, err
	}

	if limit < 1 {
		limit = defaultHistoryTake
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: false},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.MessageResponse, 0, len(messages))
	for _, msg := range messages {
		response = append(response, messageToDTO(msg))
	}
	return response, nil
}

// SendMessage is the core pipeline: ownership, admission, persist user
// message, model call, persist assistant reply. The two inserts are
// deliberately independent statements; a crash in between leaves the user
// message without a reply, which reloads visibly rather than losing input.
func (s *chatService) SendMessage(ctx context.Context, actor entity.Actor, clientIP string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	if actor.IsZero() {
		return nil, serverutils.Unauthorized("no actor identity resolvable")
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := s.assertOwnsSession(ctx, uow, actor, req.SessionId); err != nil {
		return nil, err
	}

	if !s.admitter.Admit(admissionKey(actor, clientIP)) {
		return nil, serverutils.TooManyRequests("please slow down")
	}

	userMsg := &entity.Message{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		Role:      constant.ChatMessageRoleUser,
		Content:   req.Content,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	replyText := s.safeComplete(ctx, req.Content)

	assistantMsg := &entity.Message{
		Id:        uuid.New(),
		SessionId: req.SessionId,
		Role:      constant.ChatMessageRoleAssistant,
		Content:   replyText,
		CreatedAt: time.Now(),
	}
	if err := uow.MessageRepository().Create(ctx, assistantMsg); err != nil {
		return nil, err
	}

	s.publishActivity(ctx, req.SessionId)

	return &dto.SendMessageResponse{
		User:      messageToDTO(userMsg),
		Assistant: messageToDTO(assistantMsg),
	}, nil
}

// assertOwnsSession queries by (id, actor) in one predicate so a foreign
// session and a missing session are the same NOT_FOUND.
func (s *chatService) assertOwnsSession(ctx context.Context, uow unitofwork.UnitOfWork, actor entity.Actor, sessionId uuid.UUID) error {
	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.OwnedBy{ActorID: actor.Id},
	)
	if err != nil {
		return err
	}
	if session == nil {
		return serverutils.NotFound("session not found")
	}
	return nil
}

// safeComplete shields the pipeline from the gateway: whatever goes wrong
// there, the caller sees the apology text, never a provider error.
func (s *chatService) safeComplete(ctx context.Context, prompt string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			if s.logger != nil {
				s.logger.Error("chat", "model gateway panicked", map[string]interface{}{"panic": r})
			}
			text = constant.PipelineApologyMessage
		}
	}()
	return s.gateway.Complete(ctx, prompt)
}

func (s *chatService) publishActivity(ctx context.Context, sessionId uuid.UUID) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishChatActivityMessage{SessionId: sessionId})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil && s.logger != nil {
		s.logger.Warn("chat", "failed to publish chat activity", map[string]interface{}{"error": err.Error()})
	}
}

func admissionKey(actor entity.Actor, clientIP string) string {
	id := actor.Id
	if id == "" {
		id = clientIP
	}
	if id == "" {
		id = "x"
	}
	return "send:" + id
}

func sessionToDTO(s *entity.ChatSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:        s.Id,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func messageToDTO(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:        m.Id,
		SessionId: m.SessionId,
		Role:      m.Role,
		Content:   m.Content,
		CreatedAt: m.CreatedAt,
	}
}
