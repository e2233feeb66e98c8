package serverutils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestApp(t *testing.T) (*fiber.App, *entity.Actor) {
	t.Helper()

	var captured entity.Actor
	app := fiber.New()
	app.Use(ActorMiddleware(ActorMiddlewareConfig{
		JwtSecret:      testSecret,
		AnonCookieName: "anon_user_id",
		AnonCookieAge:  time.Hour * 24 * 730,
	}))
	app.Get("/whoami", func(ctx *fiber.Ctx) error {
		actor, err := ActorFromCtx(ctx)
		if err != nil {
			return err
		}
		captured = actor
		return ctx.SendStatus(fiber.StatusOK)
	})
	return app, &captured
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func TestActorMiddlewareBearerTokenWins(t *testing.T) {
	app, captured := newTestApp(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": "user-42",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: "anon_user_id", Value: "cookie-should-lose"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ActorAuthenticated, captured.Kind)
	assert.Equal(t, "user-42", captured.Id)
}

func TestActorMiddlewareExpiredTokenFallsBackToCookie(t *testing.T) {
	app, captured := newTestApp(t)

	token := signToken(t, jwt.MapClaims{
		"user_id": "user-42",
		"exp":     time.Now().Add(-time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.AddCookie(&http.Cookie{Name: "anon_user_id", Value: "anon-7"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ActorAnonymous, captured.Kind)
	assert.Equal(t, "anon-7", captured.Id)
}

func TestActorMiddlewareExistingCookie(t *testing.T) {
	app, captured := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: "anon_user_id", Value: "anon-7"})

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ActorAnonymous, captured.Kind)
	assert.Equal(t, "anon-7", captured.Id)
}

func TestActorMiddlewareMintsCookieWhenAbsent(t *testing.T) {
	app, captured := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ActorAnonymous, captured.Kind)
	assert.NotEmpty(t, captured.Id)

	var anonCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "anon_user_id" {
			anonCookie = c
		}
	}
	require.NotNil(t, anonCookie, "a fresh anonymous id must be set as a cookie")
	assert.Equal(t, captured.Id, anonCookie.Value, "cookie and request use the same id")
	assert.True(t, anonCookie.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, anonCookie.SameSite)
	assert.InDelta(t, int(730*24*time.Hour/time.Second), anonCookie.MaxAge, 1)
}

func TestActorMiddlewareGarbageTokenFallsThrough(t *testing.T) {
	app, captured := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.ActorAnonymous, captured.Kind, "bad credentials degrade to anonymous")
}
