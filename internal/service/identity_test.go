package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository/mocks"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

const testSecret = "unit-test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func TestIdentityService_VerifyToken(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc, err := service.NewIdentityService(userRepo, testSecret)
	require.NoError(t, err)
	ctx := context.Background()

	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	userRepo.On("FindByID", ctx, uint(42)).
		Return(&domain.User{ID: 42, Username: "ada", IsActive: true}, nil).Once()

	user, err := svc.VerifyToken(ctx, tokenStr)

	require.NoError(t, err)
	assert.Equal(t, uint(42), user.ID)
	assert.Equal(t, "ada", user.Username)
	userRepo.AssertExpectations(t)
}

func TestIdentityService_VerifyToken_Missing(t *testing.T) {
	svc, _ := service.NewIdentityService(new(mocks.UserRepository), testSecret)

	_, err := svc.VerifyToken(context.Background(), "")

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestIdentityService_VerifyToken_Expired(t *testing.T) {
	svc, _ := service.NewIdentityService(new(mocks.UserRepository), testSecret)

	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})

	_, err := svc.VerifyToken(context.Background(), tokenStr)

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestIdentityService_VerifyToken_WrongSecret(t *testing.T) {
	svc, _ := service.NewIdentityService(new(mocks.UserRepository), testSecret)

	tokenStr := signToken(t, "some-other-secret", jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	_, err := svc.VerifyToken(context.Background(), tokenStr)

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestIdentityService_VerifyToken_BadUserClaim(t *testing.T) {
	svc, _ := service.NewIdentityService(new(mocks.UserRepository), testSecret)
	ctx := context.Background()

	for name, claims := range map[string]jwt.MapClaims{
		"missing":  {"exp": time.Now().Add(time.Hour).Unix()},
		"zero":     {"user_id": 0, "exp": time.Now().Add(time.Hour).Unix()},
		"negative": {"user_id": -5, "exp": time.Now().Add(time.Hour).Unix()},
		"string":   {"user_id": "42", "exp": time.Now().Add(time.Hour).Unix()},
	} {
		_, err := svc.VerifyToken(ctx, signToken(t, testSecret, claims))
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed, "claim variant %q", name)
	}
}

func TestIdentityService_VerifyToken_UnknownUser(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc, _ := service.NewIdentityService(userRepo, testSecret)
	ctx := context.Background()

	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	userRepo.On("FindByID", ctx, uint(42)).Return(nil, repository.ErrUserNotFound).Once()

	_, err := svc.VerifyToken(ctx, tokenStr)

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestIdentityService_VerifyToken_InactiveUser(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc, _ := service.NewIdentityService(userRepo, testSecret)
	ctx := context.Background()

	tokenStr := signToken(t, testSecret, jwt.MapClaims{
		"user_id": 42,
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	userRepo.On("FindByID", ctx, uint(42)).
		Return(&domain.User{ID: 42, IsActive: false}, nil).Once()

	_, err := svc.VerifyToken(ctx, tokenStr)

	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}
