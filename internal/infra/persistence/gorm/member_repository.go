package gormpersistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/YuvaKrishnaS/ideasphere-backend/internal/domain"
	"github.com/YuvaKrishnaS/ideasphere-backend/internal/repository"
)

// GormMemberRepository is the GORM implementation of MemberRepository.
type GormMemberRepository struct {
	db *gorm.DB
}

// NewGormMemberRepository creates a GormMemberRepository.
func NewGormMemberRepository(db *gorm.DB) *GormMemberRepository {
	if db == nil {
		panic("database connection cannot be nil for GormMemberRepository")
	}
	return &GormMemberRepository{db: db}
}

func (r *GormMemberRepository) FindByRoomAndUser(ctx context.Context, roomID, userID uint) (*domain.RoomMember, error) {
	var member domain.RoomMember
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND user_id = ?", roomID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrMemberNotFound
		}
		return nil, fmt.Errorf("gorm: find member (room %d, user %d): %w", roomID, userID, err)
	}
	return &member, nil
}

func (r *GormMemberRepository) FindActiveByRoom(ctx context.Context, roomID uint) ([]domain.RoomMember, error) {
	var members []domain.RoomMember
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find active members for room %d: %w", roomID, err)
	}
	return members, nil
}

func (r *GormMemberRepository) CountActiveByRooms(ctx context.Context, roomIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(roomIDs))
	if len(roomIDs) == 0 {
		return counts, nil
	}
	var rows []struct {
		RoomID uint
		Count  int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Select("room_id, COUNT(*) as count").
		Where("room_id IN ? AND is_active = ?", roomIDs, true).
		Group("room_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: count active members: %w", err)
	}
	for _, row := range rows {
		counts[row.RoomID] = row.Count
	}
	return counts, nil
}

func (r *GormMemberRepository) Save(ctx context.Context, member *domain.RoomMember) error {
	err := r.db.WithContext(ctx).Save(member).Error
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
			return repository.ErrDuplicateEntry
		}
		return fmt.Errorf("gorm: save member (room %d, user %d): %w", member.RoomID, member.UserID, err)
	}
	return nil
}

func (r *GormMemberRepository) Deactivate(ctx context.Context, roomID, userID uint, leftAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Where("room_id = ? AND user_id = ? AND is_active = ?", roomID, userID, true).
		Updates(map[string]interface{}{"is_active": false, "left_at": leftAt}).Error
	if err != nil {
		return fmt.Errorf("gorm: deactivate member (room %d, user %d): %w", roomID, userID, err)
	}
	return nil
}

func (r *GormMemberRepository) DeactivateAll(ctx context.Context, roomID uint, leftAt time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Where("room_id = ? AND is_active = ?", roomID, true).
		Updates(map[string]interface{}{"is_active": false, "left_at": leftAt}).Error
	if err != nil {
		return fmt.Errorf("gorm: deactivate all members for room %d: %w", roomID, err)
	}
	return nil
}

func (r *GormMemberRepository) IncrementContribution(ctx context.Context, roomID, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&domain.RoomMember{}).
		Where("room_id = ? AND user_id = ? AND is_active = ?", roomID, userID, true).
		UpdateColumn("contribution_count", gorm.Expr("contribution_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("gorm: increment contribution (room %d, user %d): %w", roomID, userID, err)
	}
	return nil
}
