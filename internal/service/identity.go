package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
)

// IdentityService resolves bearer credentials to user identities. It is
// the verification half of the platform's auth system: token issuance
// happens elsewhere.
type IdentityService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// NewIdentityService creates an IdentityService.
func NewIdentityService(userRepo repository.UserRepository, jwtSecret string) (*IdentityService, error) {
	if userRepo == nil {
		return nil, errors.New("UserRepository cannot be nil for IdentityService")
	}
	if jwtSecret == "" {
		return nil, errors.New("JWT secret cannot be empty for IdentityService")
	}
	return &IdentityService{userRepo: userRepo, jwtSecret: jwtSecret}, nil
}

// VerifyToken validates the signature and expiry of the token, then loads
// the user it names. Every failure mode collapses to
// ErrAuthenticationFailed so the caller can reject uniformly; details go
// to the log only.
func (s *IdentityService) VerifyToken(ctx context.Context, tokenStr string) (*domain.User, error) {
	if tokenStr == "" {
		return nil, fmt.Errorf("%w: missing token", ErrAuthenticationFailed)
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		logrus.WithError(err).Debug("Token verification failed")
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", ErrAuthenticationFailed)
	}

	// JWT numbers decode as float64; reject anything that is not a
	// positive integral id.
	idClaim, ok := claims["user_id"].(float64)
	if !ok || idClaim <= 0 || idClaim != float64(uint(idClaim)) {
		return nil, fmt.Errorf("%w: invalid user_id claim", ErrAuthenticationFailed)
	}
	userID := uint(idClaim)

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrAuthenticationFailed)
		}
		return nil, fmt.Errorf("identity: load user %d: %w", userID, err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("%w: user inactive", ErrAuthenticationFailed)
	}
	return user, nil
}
