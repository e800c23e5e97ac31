// Package service holds the business logic between the transport layers
// (HTTP, websocket hub) and the repositories.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/tasks"
)

// roomListLimit caps every public room listing, REST and socket alike.
const roomListLimit = 20

// TaskQueue is the slice of the asynq client the services need. Satisfied
// by *asynq.Client and mockable in tests.
type TaskQueue interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// RoomService owns the durable room lifecycle: create, update, end, read.
type RoomService struct {
	roomRepo   repository.RoomRepository
	memberRepo repository.MemberRepository
	userRepo   repository.UserRepository
	stateRepo  repository.StateRepository
	queue      TaskQueue
}

// NewRoomService creates a RoomService.
func NewRoomService(roomRepo repository.RoomRepository, memberRepo repository.MemberRepository, userRepo repository.UserRepository, stateRepo repository.StateRepository, queue TaskQueue) *RoomService {
	if roomRepo == nil || memberRepo == nil || userRepo == nil || stateRepo == nil {
		panic("repositories cannot be nil for RoomService")
	}
	if queue == nil {
		panic("TaskQueue cannot be nil for RoomService")
	}
	return &RoomService{roomRepo: roomRepo, memberRepo: memberRepo, userRepo: userRepo, stateRepo: stateRepo, queue: queue}
}

// CreateRoomInput carries the caller-supplied room fields. Field-level
// format validation happens at the HTTP binding; the service applies
// defaults and generates the room code.
type CreateRoomInput struct {
	Name            string
	Description     string
	Topic           string
	MaxParticipants int
	IsPublic        *bool
	Technologies    []string
}

// CreateRoom creates a room and its owner membership row.
func (s *RoomService) CreateRoom(ctx context.Context, ownerID uint, in CreateRoomInput) (*domain.Room, error) {
	logCtx := logrus.WithField("owner_id", ownerID)

	owner, err := s.userRepo.FindByID(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("create room: load owner %d: %w", ownerID, err)
	}

	code, err := s.generateUniqueRoomCode(ctx)
	if err != nil {
		return nil, err
	}

	maxParticipants := in.MaxParticipants
	if maxParticipants == 0 {
		maxParticipants = 10
	}
	if maxParticipants < 2 || maxParticipants > 50 {
		return nil, fmt.Errorf("%w: maxParticipants must be between 2 and 50", ErrValidation)
	}
	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}
	technologies := in.Technologies
	if technologies == nil {
		technologies = []string{}
	}

	room := &domain.Room{
		OwnerID:         owner.ID,
		Name:            in.Name,
		Description:     in.Description,
		Topic:           in.Topic,
		Technologies:    technologies,
		MaxParticipants: maxParticipants,
		IsActive:        true,
		IsPublic:        isPublic,
		RoomCode:        code,
	}
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}

	// The owner role is assigned exactly once, here.
	member := &domain.RoomMember{
		RoomID:   room.ID,
		UserID:   owner.ID,
		Role:     domain.RoleOwner,
		JoinedAt: time.Now().UTC(),
		IsActive: true,
	}
	if err := s.memberRepo.Save(ctx, member); err != nil {
		return nil, fmt.Errorf("create owner membership for room %d: %w", room.ID, err)
	}

	// Seed the cached metadata. Best effort: the realtime path reads the
	// registry, so a cache miss here costs nothing.
	s.cacheRoomMeta(ctx, room)

	room.Owner = *owner
	logCtx.WithFields(logrus.Fields{"room_id": room.ID, "room_code": room.RoomCode}).Info("Room created")
	return room, nil
}

func (s *RoomService) cacheRoomMeta(ctx context.Context, room *domain.Room) {
	meta := map[string]string{
		"name":     room.Name,
		"topic":    room.Topic,
		"owner_id": strconv.FormatUint(uint64(room.OwnerID), 10),
	}
	if err := s.stateRepo.SetRoomMeta(ctx, room.ID, meta); err != nil {
		logrus.WithField("room_id", room.ID).WithError(err).Warn("Failed to cache room metadata")
	}
}

// UpdateRoomInput carries optional room updates; nil fields are left
// untouched.
type UpdateRoomInput struct {
	Name            *string
	Description     *string
	Topic           *string
	MaxParticipants *int
	IsPublic        *bool
	Technologies    []string
}

// UpdateRoom applies a partial update. Only the owner may update, and only
// while the room is active.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, requesterID uint, in UpdateRoomInput) (*domain.Room, error) {
	room, err := s.findActiveRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != requesterID {
		return nil, ErrNotRoomOwner
	}

	if in.Name != nil {
		room.Name = *in.Name
	}
	if in.Description != nil {
		room.Description = *in.Description
	}
	if in.Topic != nil {
		room.Topic = *in.Topic
	}
	if in.MaxParticipants != nil {
		if *in.MaxParticipants < 2 || *in.MaxParticipants > 50 {
			return nil, fmt.Errorf("%w: maxParticipants must be between 2 and 50", ErrValidation)
		}
		room.MaxParticipants = *in.MaxParticipants
	}
	if in.IsPublic != nil {
		room.IsPublic = *in.IsPublic
	}
	if in.Technologies != nil {
		room.Technologies = in.Technologies
	}

	if err := s.roomRepo.Save(ctx, room); err != nil {
		return nil, fmt.Errorf("update room %d: %w", roomID, err)
	}
	s.cacheRoomMeta(ctx, room)
	return room, nil
}

// EndRoom marks the room ended and cascades: every membership is
// deactivated and the ephemeral state is cleared by a background task.
// Ended rooms never accept joins or content changes again.
func (s *RoomService) EndRoom(ctx context.Context, roomID, requesterID uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"room_id": roomID, "requester_id": requesterID})

	room, err := s.findActiveRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if room.OwnerID != requesterID {
		return ErrNotRoomOwner
	}

	now := time.Now().UTC()
	room.IsActive = false
	room.EndedAt = &now
	if err := s.roomRepo.Save(ctx, room); err != nil {
		return fmt.Errorf("end room %d: %w", roomID, err)
	}
	if err := s.memberRepo.DeactivateAll(ctx, roomID, now); err != nil {
		return fmt.Errorf("deactivate members of room %d: %w", roomID, err)
	}

	task, err := tasks.NewRoomStateCleanupTask(roomID)
	if err != nil {
		logCtx.WithError(err).Error("Failed to build room state cleanup task")
	} else if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
		// The periodic sweep reconciles rooms whose cleanup task was lost.
		logCtx.WithError(err).Error("Failed to enqueue room state cleanup task")
	}

	logCtx.Info("Room ended")
	return nil
}

// GetRoom loads a room by id together with its active members.
func (s *RoomService) GetRoom(ctx context.Context, roomID uint) (*domain.Room, []domain.RoomMember, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, fmt.Errorf("get room %d: %w", roomID, err)
	}
	members, err := s.memberRepo.FindActiveByRoom(ctx, room.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get members of room %d: %w", room.ID, err)
	}
	return room, members, nil
}

// GetRoomByCode resolves the human-enterable room code.
func (s *RoomService) GetRoomByCode(ctx context.Context, code string) (*domain.Room, []domain.RoomMember, error) {
	room, err := s.roomRepo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, nil, ErrRoomNotFound
		}
		return nil, nil, fmt.Errorf("get room by code %q: %w", code, err)
	}
	members, err := s.memberRepo.FindActiveByRoom(ctx, room.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("get members of room %d: %w", room.ID, err)
	}
	return room, members, nil
}

// ListPublicRooms returns public, active rooms newest-first with derived
// member counts, capped at the fixed page size.
func (s *RoomService) ListPublicRooms(ctx context.Context) ([]RoomSummary, error) {
	return listPublicRooms(ctx, s.roomRepo, s.memberRepo)
}

func (s *RoomService) findActiveRoom(ctx context.Context, roomID uint) (*domain.Room, error) {
	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("find room %d: %w", roomID, err)
	}
	if !room.IsActive {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

const roomCodeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// generateUniqueRoomCode draws random 8-char codes until one is free.
func (s *RoomService) generateUniqueRoomCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 5; attempt++ {
		b := make([]byte, 8)
		if _, err := rand.Read(b); err != nil {
			return "", fmt.Errorf("generate room code: %w", err)
		}
		for i := range b {
			b[i] = roomCodeAlphabet[b[i]%byte(len(roomCodeAlphabet))]
		}
		code := string(b)

		taken, err := s.roomRepo.IsCodeTaken(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check room code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique room code")
}

// RoomSummary is the derived listing row shared by the REST list endpoint
// and the rooms-list socket event.
type RoomSummary struct {
	ID              uint                 `json:"id"`
	Name            string               `json:"name"`
	Description     string               `json:"description"`
	Topic           string               `json:"topic"`
	Technologies    []string             `json:"technologies"`
	MemberCount     int64                `json:"memberCount"`
	MaxParticipants int                  `json:"maxParticipants"`
	Owner           domain.PublicProfile `json:"owner"`
	CreatedAt       time.Time            `json:"createdAt"`
}

func listPublicRooms(ctx context.Context, roomRepo repository.RoomRepository, memberRepo repository.MemberRepository) ([]RoomSummary, error) {
	rooms, err := roomRepo.FindPublicActive(ctx, roomListLimit)
	if err != nil {
		return nil, fmt.Errorf("list public rooms: %w", err)
	}

	ids := make([]uint, len(rooms))
	for i, room := range rooms {
		ids[i] = room.ID
	}
	counts, err := memberRepo.CountActiveByRooms(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count room members: %w", err)
	}

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, RoomSummary{
			ID:              room.ID,
			Name:            room.Name,
			Description:     room.Description,
			Topic:           room.Topic,
			Technologies:    room.Technologies,
			MemberCount:     counts[room.ID],
			MaxParticipants: room.MaxParticipants,
			Owner:           room.Owner.Public(),
			CreatedAt:       room.CreatedAt,
		})
	}
	return summaries, nil
}
