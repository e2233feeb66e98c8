package service

import (
	"context"
	"testing"
	"time"

	"github.com/visheshc14/career-counselor-chat/internal/dto"
	"github.com/visheshc14/career-counselor-chat/internal/entity"
	"github.com/visheshc14/career-counselor-chat/internal/pkg/serverutils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJwtSecret = "unit-test-secret"

func newAuthHarness() (*harness, IAuthService) {
	h := newHarness()
	// Nil NATS publisher: auth events are best-effort and must not be required.
	return h, NewAuthService(&fakeFactory{uow: h.uow}, testJwtSecret, nil)
}

func TestRegisterHashesPasswordAndNormalizesEmail(t *testing.T) {
	h, svc := newAuthHarness()

	res, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "  Dev@Example.COM ",
		Password: "hunter2hunter2",
		Name:     "  Dev  ",
	})

	require.NoError(t, err)
	require.Len(t, h.uow.userRepo.created, 1)

	created := h.uow.userRepo.created[0]
	assert.Equal(t, "dev@example.com", created.Email)
	assert.Equal(t, created.Email, res.Email)
	require.NotNil(t, created.Name)
	assert.Equal(t, "Dev", *created.Name)

	assert.NotEqual(t, "hunter2hunter2", created.PasswordHash, "password is never stored in the clear")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("hunter2hunter2")))
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	h, svc := newAuthHarness()
	h.uow.userRepo.findOneResult = &entity.User{Id: uuid.New(), Email: "dev@example.com"}

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "hunter2hunter2",
	})

	assertKind(t, err, serverutils.KindValidation)
	assert.Empty(t, h.uow.userRepo.created)
}

func TestRegisterBlankNameStaysNull(t *testing.T) {
	h, svc := newAuthHarness()

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:    "dev@example.com",
		Password: "hunter2hunter2",
		Name:     "   ",
	})

	require.NoError(t, err)
	require.Len(t, h.uow.userRepo.created, 1)
	assert.Nil(t, h.uow.userRepo.created[0].Name)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	h, svc := newAuthHarness()
	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2hunter2"), bcrypt.DefaultCost)
	require.NoError(t, err)

	userId := uuid.New()
	h.uow.userRepo.findOneResult = &entity.User{
		Id:           userId,
		Email:        "dev@example.com",
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	res, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "hunter2hunter2",
	}, "1.2.3.4", "test-agent")

	require.NoError(t, err)
	assert.Equal(t, userId, res.User.Id)

	token, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testJwtSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, userId.String(), claims["user_id"])
	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()), "token carries a future expiry")
}

func TestLoginUnknownEmailIsUnauthorized(t *testing.T) {
	_, svc := newAuthHarness()

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever123",
	}, "", "")

	assertKind(t, err, serverutils.KindUnauthorized)
}

func TestLoginWrongPasswordIsUnauthorized(t *testing.T) {
	h, svc := newAuthHarness()
	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.DefaultCost)
	h.uow.userRepo.findOneResult = &entity.User{
		Id:           uuid.New(),
		Email:        "dev@example.com",
		PasswordHash: string(hash),
	}

	_, err := svc.Login(context.Background(), &dto.LoginRequest{
		Email:    "dev@example.com",
		Password: "wrong-password",
	}, "", "")

	// Same error for unknown email and wrong password, on purpose.
	assertKind(t, err, serverutils.KindUnauthorized)
}
