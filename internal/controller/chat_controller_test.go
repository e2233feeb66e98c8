package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/dto"
	"github.com/visheshc14/career-counselor-chat/internal/entity"
	"github.com/visheshc14/career-counselor-chat/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	sessions []*dto.SessionResponse
	messages []*dto.MessageResponse
	sendRes  *dto.SendMessageResponse
	err      error

	gotActor   entity.Actor
	gotList    *dto.ListSessionsRequest
	gotSend    *dto.SendMessageRequest
	gotSession uuid.UUID
	gotLimit   int
}

func (s *stubChatService) ListSessions(ctx context.Context, actor entity.Actor, req *dto.ListSessionsRequest) ([]*dto.SessionResponse, error) {
	s.gotActor, s.gotList = actor, req
	return s.sessions, s.err
}

func (s *stubChatService) CreateSession(ctx context.Context, actor entity.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	s.gotActor = actor
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SessionResponse{Id: uuid.New(), Title: req.Title, CreatedAt: time.Now()}, nil
}

func (s *stubChatService) WipeAndCreate(ctx context.Context, actor entity.Actor, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	return s.CreateSession(ctx, actor, req)
}

func (s *stubChatService) GetMessages(ctx context.Context, actor entity.Actor, sessionId uuid.UUID, limit int) ([]*dto.MessageResponse, error) {
	s.gotActor, s.gotSession, s.gotLimit = actor, sessionId, limit
	return s.messages, s.err
}

func (s *stubChatService) SendMessage(ctx context.Context, actor entity.Actor, clientIP string, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	s.gotActor, s.gotSend = actor, req
	return s.sendRes, s.err
}

func fixedActorMiddleware(actor entity.Actor) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		ctx.Locals("actor", actor)
		return ctx.Next()
	}
}

func newChatApp(svc *stubChatService, actor entity.Actor) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api, fixedActorMiddleware(actor))
	return app
}

func decodeBody(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestListSessionsRoute(t *testing.T) {
	svc := &stubChatService{sessions: []*dto.SessionResponse{
		{Id: uuid.New(), Title: "First", CreatedAt: time.Now()},
	}}
	app := newChatApp(svc, entity.AnonymousActor("anon-1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/v1/sessions?page=2&page_size=5", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "anon-1", svc.gotActor.Id)
	assert.Equal(t, 2, svc.gotList.Page)
	assert.Equal(t, 5, svc.gotList.PageSize)
}

func TestSendMessageRoute(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubChatService{sendRes: &dto.SendMessageResponse{
		User:      &dto.MessageResponse{Id: uuid.New(), SessionId: sessionId, Role: "user", Content: "hi"},
		Assistant: &dto.MessageResponse{Id: uuid.New(), SessionId: sessionId, Role: "assistant", Content: "hello"},
	}}
	app := newChatApp(svc, entity.AuthenticatedActor("user-1"))

	payload := `{"session_id":"` + sessionId.String() + `","content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/v1/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sessionId, svc.gotSend.SessionId)
	assert.Equal(t, "user-1", svc.gotActor.Id)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]interface{})
	assert.NotNil(t, data["user"])
	assert.NotNil(t, data["assistant"])
}

func TestSendMessageRouteRejectsBlankContent(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc, entity.AnonymousActor("anon-1"))

	payload := `{"session_id":"` + uuid.NewString() + `","content":""}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/v1/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Nil(t, svc.gotSend, "invalid payloads never reach the service")

	body := decodeBody(t, resp)
	assert.Equal(t, "VALIDATION", body["error_type"])
}

func TestSendMessageRouteSurfacesRateLimit(t *testing.T) {
	svc := &stubChatService{err: serverutils.TooManyRequests("please slow down")}
	app := newChatApp(svc, entity.AnonymousActor("anon-1"))

	payload := `{"session_id":"` + uuid.NewString() + `","content":"hi"}`
	req := httptest.NewRequest(http.MethodPost, "/api/chat/v1/messages", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "TOO_MANY_REQUESTS", body["error_type"])
	assert.Equal(t, "please slow down", body["message"])
}

func TestGetMessagesRouteParsesSessionId(t *testing.T) {
	sessionId := uuid.New()
	svc := &stubChatService{messages: []*dto.MessageResponse{}}
	app := newChatApp(svc, entity.AnonymousActor("anon-1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/v1/sessions/"+sessionId.String()+"/messages?limit=50", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, sessionId, svc.gotSession)
	assert.Equal(t, 50, svc.gotLimit)
}

func TestGetMessagesRouteRejectsMalformedId(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc, entity.AnonymousActor("anon-1"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/v1/sessions/not-a-uuid/messages", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateSessionRoute(t *testing.T) {
	svc := &stubChatService{}
	app := newChatApp(svc, entity.AnonymousActor("anon-1"))

	req := httptest.NewRequest(http.MethodPost, "/api/chat/v1/sessions", strings.NewReader(`{"title":"Career Chat"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestRoutesRequireActor(t *testing.T) {
	svc := &stubChatService{}
	// Middleware that never sets an actor, like a request bypassing it.
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api, func(ctx *fiber.Ctx) error { return ctx.Next() })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/chat/v1/sessions", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
