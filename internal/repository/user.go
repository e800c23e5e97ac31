// Package repository defines the storage interfaces the services depend
// on. Implementations live under internal/infra.
package repository

import (
	"context"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

// UserRepository reads durable user records. User creation and credential
// management belong to the surrounding platform.
type UserRepository interface {
	// FindByID returns the user or ErrUserNotFound.
	FindByID(ctx context.Context, id uint) (*domain.User, error)

	// FindByUsername returns the user or ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
