// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
)

// UserRepository is a mock of repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if user, ok := args.Get(0).(*domain.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// RoomRepository is a mock of repository.RoomRepository.
type RoomRepository struct {
	mock.Mock
}

func (m *RoomRepository) FindByID(ctx context.Context, id uint) (*domain.Room, error) {
	args := m.Called(ctx, id)
	if room, ok := args.Get(0).(*domain.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) FindByCode(ctx context.Context, code string) (*domain.Room, error) {
	args := m.Called(ctx, code)
	if room, ok := args.Get(0).(*domain.Room); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) FindPublicActive(ctx context.Context, limit int) ([]domain.Room, error) {
	args := m.Called(ctx, limit)
	if rooms, ok := args.Get(0).([]domain.Room); ok {
		return rooms, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) FindEndedSince(ctx context.Context, since time.Time) ([]uint, error) {
	args := m.Called(ctx, since)
	if ids, ok := args.Get(0).([]uint); ok {
		return ids, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}

func (m *RoomRepository) IsCodeTaken(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MemberRepository is a mock of repository.MemberRepository.
type MemberRepository struct {
	mock.Mock
}

func (m *MemberRepository) FindByRoomAndUser(ctx context.Context, roomID, userID uint) (*domain.RoomMember, error) {
	args := m.Called(ctx, roomID, userID)
	if member, ok := args.Get(0).(*domain.RoomMember); ok {
		return member, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) FindActiveByRoom(ctx context.Context, roomID uint) ([]domain.RoomMember, error) {
	args := m.Called(ctx, roomID)
	if members, ok := args.Get(0).([]domain.RoomMember); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) CountActiveByRooms(ctx context.Context, roomIDs []uint) (map[uint]int64, error) {
	args := m.Called(ctx, roomIDs)
	if counts, ok := args.Get(0).(map[uint]int64); ok {
		return counts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MemberRepository) Save(ctx context.Context, member *domain.RoomMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MemberRepository) Deactivate(ctx context.Context, roomID, userID uint, leftAt time.Time) error {
	args := m.Called(ctx, roomID, userID, leftAt)
	return args.Error(0)
}

func (m *MemberRepository) DeactivateAll(ctx context.Context, roomID uint, leftAt time.Time) error {
	args := m.Called(ctx, roomID, leftAt)
	return args.Error(0)
}

func (m *MemberRepository) IncrementContribution(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

// StateRepository is a mock of repository.StateRepository.
type StateRepository struct {
	mock.Mock
}

func (m *StateRepository) SetRoomMeta(ctx context.Context, roomID uint, meta map[string]string) error {
	args := m.Called(ctx, roomID, meta)
	return args.Error(0)
}

func (m *StateRepository) GetRoomMeta(ctx context.Context, roomID uint) (map[string]string, error) {
	args := m.Called(ctx, roomID)
	if meta, ok := args.Get(0).(map[string]string); ok {
		return meta, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) AddPresence(ctx context.Context, roomID uint, presence domain.Presence) error {
	args := m.Called(ctx, roomID, presence)
	return args.Error(0)
}

func (m *StateRepository) RemovePresence(ctx context.Context, roomID, userID uint) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}

func (m *StateRepository) GetPresence(ctx context.Context, roomID uint) (map[string]domain.Presence, error) {
	args := m.Called(ctx, roomID)
	if presence, ok := args.Get(0).(map[string]domain.Presence); ok {
		return presence, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *StateRepository) SetContent(ctx context.Context, roomID uint, content string) error {
	args := m.Called(ctx, roomID, content)
	return args.Error(0)
}

func (m *StateRepository) GetContent(ctx context.Context, roomID uint) (string, error) {
	args := m.Called(ctx, roomID)
	return args.String(0), args.Error(1)
}

func (m *StateRepository) ClearRoomState(ctx context.Context, roomID uint) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}
