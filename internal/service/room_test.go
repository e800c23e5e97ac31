package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository/mocks"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/service"
)

func newRoomService(t *testing.T) (*service.RoomService, *mocks.RoomRepository, *mocks.MemberRepository, *mocks.UserRepository, *mocks.StateRepository, *taskQueueMock) {
	t.Helper()
	roomRepo := new(mocks.RoomRepository)
	memberRepo := new(mocks.MemberRepository)
	userRepo := new(mocks.UserRepository)
	stateRepo := new(mocks.StateRepository)
	queue := new(taskQueueMock)
	svc := service.NewRoomService(roomRepo, memberRepo, userRepo, stateRepo, queue)
	return svc, roomRepo, memberRepo, userRepo, stateRepo, queue
}

func TestRoomService_CreateRoom(t *testing.T) {
	svc, roomRepo, memberRepo, userRepo, stateRepo, _ := newRoomService(t)
	ctx := context.Background()
	owner := &domain.User{ID: 42, Username: "ada", IsActive: true}

	userRepo.On("FindByID", ctx, uint(42)).Return(owner, nil).Once()
	roomRepo.On("IsCodeTaken", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	roomRepo.On("Save", ctx, mock.MatchedBy(func(r *domain.Room) bool {
		return r.OwnerID == 42 && r.Name == "Go study" && r.IsActive && r.IsPublic &&
			r.MaxParticipants == 10 && len(r.RoomCode) == 8
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Room).ID = 7
	}).Return(nil).Once()
	memberRepo.On("Save", ctx, mock.MatchedBy(func(m *domain.RoomMember) bool {
		return m.RoomID == 7 && m.UserID == 42 && m.Role == domain.RoleOwner && m.IsActive
	})).Return(nil).Once()
	stateRepo.On("SetRoomMeta", ctx, uint(7), mock.MatchedBy(func(meta map[string]string) bool {
		return meta["name"] == "Go study" && meta["owner_id"] == "42"
	})).Return(nil).Once()

	room, err := svc.CreateRoom(ctx, 42, service.CreateRoomInput{
		Name:  "Go study",
		Topic: "generics",
	})

	require.NoError(t, err)
	require.NotNil(t, room)
	assert.Equal(t, uint(7), room.ID)
	assert.Equal(t, "ada", room.Owner.Username)
	assert.NotNil(t, room.Technologies)

	roomRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestRoomService_CreateRoom_UnknownOwner(t *testing.T) {
	svc, _, _, userRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(9)).Return(nil, repository.ErrUserNotFound).Once()

	room, err := svc.CreateRoom(ctx, 9, service.CreateRoomInput{Name: "x", Topic: "y"})

	assert.Nil(t, room)
	assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
}

func TestRoomService_CreateRoom_InvalidCapacity(t *testing.T) {
	svc, roomRepo, _, userRepo, _, _ := newRoomService(t)
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(42)).Return(&domain.User{ID: 42, IsActive: true}, nil)
	roomRepo.On("IsCodeTaken", ctx, mock.AnythingOfType("string")).Return(false, nil)

	for _, capacity := range []int{1, 51, -3} {
		_, err := svc.CreateRoom(ctx, 42, service.CreateRoomInput{
			Name: "x", Topic: "y", MaxParticipants: capacity,
		})
		assert.ErrorIs(t, err, service.ErrValidation, "capacity %d", capacity)
	}
	roomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRoomService_CreateRoom_RetriesTakenCode(t *testing.T) {
	svc, roomRepo, memberRepo, userRepo, stateRepo, _ := newRoomService(t)
	ctx := context.Background()

	userRepo.On("FindByID", ctx, uint(42)).Return(&domain.User{ID: 42, IsActive: true}, nil).Once()
	roomRepo.On("IsCodeTaken", ctx, mock.AnythingOfType("string")).Return(true, nil).Once()
	roomRepo.On("IsCodeTaken", ctx, mock.AnythingOfType("string")).Return(false, nil).Once()
	roomRepo.On("Save", ctx, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Room).ID = 8
	}).Return(nil).Once()
	memberRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
	stateRepo.On("SetRoomMeta", ctx, uint(8), mock.Anything).Return(nil).Once()

	_, err := svc.CreateRoom(ctx, 42, service.CreateRoomInput{Name: "x", Topic: "y"})

	require.NoError(t, err)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_UpdateRoom_NotOwner(t *testing.T) {
	svc, roomRepo, _, _, stateRepo, _ := newRoomService(t)
	ctx := context.Background()

	room := &domain.Room{ID: 7, OwnerID: 1, IsActive: true}
	roomRepo.On("FindByID", ctx, uint(7)).Return(room, nil).Once()

	name := "renamed"
	_, err := svc.UpdateRoom(ctx, 7, 2, service.UpdateRoomInput{Name: &name})

	assert.ErrorIs(t, err, service.ErrNotRoomOwner)
	roomRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	stateRepo.AssertNotCalled(t, "SetRoomMeta", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_UpdateRoom_PartialFields(t *testing.T) {
	svc, roomRepo, _, _, stateRepo, _ := newRoomService(t)
	ctx := context.Background()

	room := &domain.Room{ID: 7, OwnerID: 1, Name: "old", Topic: "old topic", IsActive: true, MaxParticipants: 10}
	roomRepo.On("FindByID", ctx, uint(7)).Return(room, nil).Once()
	roomRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
	stateRepo.On("SetRoomMeta", ctx, uint(7), mock.Anything).Return(nil).Once()

	name := "new name"
	updated, err := svc.UpdateRoom(ctx, 7, 1, service.UpdateRoomInput{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "new name", updated.Name)
	assert.Equal(t, "old topic", updated.Topic)
	assert.Equal(t, 10, updated.MaxParticipants)
}

func TestRoomService_EndRoom(t *testing.T) {
	svc, roomRepo, memberRepo, _, _, queue := newRoomService(t)
	ctx := context.Background()

	room := &domain.Room{ID: 7, OwnerID: 1, IsActive: true}
	roomRepo.On("FindByID", ctx, uint(7)).Return(room, nil).Once()
	roomRepo.On("Save", ctx, mock.MatchedBy(func(r *domain.Room) bool {
		return !r.IsActive && r.EndedAt != nil
	})).Return(nil).Once()
	memberRepo.On("DeactivateAll", ctx, uint(7), mock.AnythingOfType("time.Time")).Return(nil).Once()
	queue.On("EnqueueContext", ctx, mock.Anything).Return(nil, nil).Once()

	err := svc.EndRoom(ctx, 7, 1)

	assert.NoError(t, err)
	roomRepo.AssertExpectations(t)
	memberRepo.AssertExpectations(t)
	queue.AssertExpectations(t)
}

func TestRoomService_EndRoom_ToleratesLostCleanupTask(t *testing.T) {
	svc, roomRepo, memberRepo, _, _, queue := newRoomService(t)
	ctx := context.Background()

	room := &domain.Room{ID: 7, OwnerID: 1, IsActive: true}
	roomRepo.On("FindByID", ctx, uint(7)).Return(room, nil).Once()
	roomRepo.On("Save", ctx, mock.Anything).Return(nil).Once()
	memberRepo.On("DeactivateAll", ctx, uint(7), mock.AnythingOfType("time.Time")).Return(nil).Once()
	queue.On("EnqueueContext", ctx, mock.Anything).Return(nil, assert.AnError).Once()

	// The sweep will reconcile later; ending the room still succeeds.
	err := svc.EndRoom(ctx, 7, 1)

	assert.NoError(t, err)
}

func TestRoomService_EndRoom_NotOwner(t *testing.T) {
	svc, roomRepo, memberRepo, _, _, _ := newRoomService(t)
	ctx := context.Background()

	room := &domain.Room{ID: 7, OwnerID: 1, IsActive: true}
	roomRepo.On("FindByID", ctx, uint(7)).Return(room, nil).Once()

	err := svc.EndRoom(ctx, 7, 99)

	assert.ErrorIs(t, err, service.ErrNotRoomOwner)
	memberRepo.AssertNotCalled(t, "DeactivateAll", mock.Anything, mock.Anything, mock.Anything)
}

func TestRoomService_EndRoom_AlreadyEnded(t *testing.T) {
	svc, roomRepo, _, _, _, _ := newRoomService(t)
	ctx := context.Background()

	ended := &domain.Room{ID: 7, OwnerID: 1, IsActive: false}
	roomRepo.On("FindByID", ctx, uint(7)).Return(ended, nil).Once()

	err := svc.EndRoom(ctx, 7, 1)

	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestRoomService_ListPublicRooms(t *testing.T) {
	svc, roomRepo, memberRepo, _, _, _ := newRoomService(t)
	ctx := context.Background()

	rooms := []domain.Room{
		{ID: 2, Name: "newer", MaxParticipants: 10, Owner: domain.User{ID: 1, Username: "ada"}, CreatedAt: time.Now()},
		{ID: 1, Name: "older", MaxParticipants: 5, Owner: domain.User{ID: 2, Username: "bob"}, CreatedAt: time.Now().Add(-time.Hour)},
	}
	roomRepo.On("FindPublicActive", ctx, 20).Return(rooms, nil).Once()
	memberRepo.On("CountActiveByRooms", ctx, []uint{2, 1}).Return(map[uint]int64{2: 3, 1: 1}, nil).Once()

	summaries, err := svc.ListPublicRooms(ctx)

	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, uint(2), summaries[0].ID)
	assert.Equal(t, int64(3), summaries[0].MemberCount)
	assert.Equal(t, "ada", summaries[0].Owner.Username)
	assert.Equal(t, int64(1), summaries[1].MemberCount)
}
