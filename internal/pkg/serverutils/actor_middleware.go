package serverutils

import (
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/entity"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const actorLocalsKey = "actor"

// ActorMiddlewareConfig carries the pieces of config the middleware needs,
// so the package stays import-cycle free.
type ActorMiddlewareConfig struct {
	JwtSecret      string
	AnonCookieName string
	AnonCookieAge  time.Duration
	SecureCookies  bool
}

// ActorMiddleware resolves the request's actor identity. A valid Bearer
// token wins; otherwise the anonymous cookie is read, and issued when
// absent. Every request downstream of this middleware has an actor.
func ActorMiddleware(cfg ActorMiddlewareConfig) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if userId, ok := userIdFromToken(ctx.Get("Authorization"), cfg.JwtSecret); ok {
			ctx.Locals(actorLocalsKey, entity.AuthenticatedActor(userId))
			return ctx.Next()
		}

		if anonId := ctx.Cookies(cfg.AnonCookieName); anonId != "" {
			ctx.Locals(actorLocalsKey, entity.AnonymousActor(anonId))
			return ctx.Next()
		}

		anonId := uuid.NewString()
		ctx.Cookie(&fiber.Cookie{
			Name:     cfg.AnonCookieName,
			Value:    anonId,
			Path:     "/",
			MaxAge:   int(cfg.AnonCookieAge.Seconds()),
			HTTPOnly: true,
			Secure:   cfg.SecureCookies,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
		ctx.Locals(actorLocalsKey, entity.AnonymousActor(anonId))
		return ctx.Next()
	}
}

func userIdFromToken(authHeader, secret string) (string, bool) {
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return "", false
	}
	tokenStr := authHeader[7:]

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	userId, ok := claims["user_id"].(string)
	if !ok || userId == "" {
		return "", false
	}
	return userId, true
}

// ActorFromCtx returns the resolved actor or UNAUTHORIZED when the request
// never passed through ActorMiddleware.
func ActorFromCtx(ctx *fiber.Ctx) (entity.Actor, error) {
	actor, ok := ctx.Locals(actorLocalsKey).(entity.Actor)
	if !ok || actor.IsZero() {
		return entity.Actor{}, Unauthorized("no actor identity resolvable")
	}
	return actor, nil
}
