package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// FriendshipRepo реализует repository.FriendshipRepository
type FriendshipRepo struct {
	db *gorm.DB
}

// NewFriendshipRepo создает новый репозиторий дружеских связей
func NewFriendshipRepo(db *gorm.DB) *FriendshipRepo {
	return &FriendshipRepo{db: db}
}

// Create создает заявку в друзья
func (r *FriendshipRepo) Create(friendship *entity.Friendship) error {
	if err := r.db.Create(friendship).Error; err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrConflict
		}
		return err
	}
	return nil
}

// GetByID возвращает связь по ID
func (r *FriendshipRepo) GetByID(id uint) (*entity.Friendship, error) {
	var friendship entity.Friendship
	if err := r.db.First(&friendship, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// GetBetween возвращает связь между двумя пользователями независимо от направления заявки
func (r *FriendshipRepo) GetBetween(userA, userB uint) (*entity.Friendship, error) {
	var friendship entity.Friendship
	err := r.db.Where(
		"(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
		userA, userB, userB, userA,
	).First(&friendship).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &friendship, nil
}

// UpdateStatus меняет статус заявки
func (r *FriendshipRepo) UpdateStatus(id uint, status string) error {
	result := r.db.Model(&entity.Friendship{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ListAcceptedForUser возвращает принятые связи пользователя (в обоих направлениях)
func (r *FriendshipRepo) ListAcceptedForUser(userID uint) ([]entity.Friendship, error) {
	var friendships []entity.Friendship
	err := r.db.Where(
		"(requester_id = ? OR addressee_id = ?) AND status = ?",
		userID, userID, entity.FriendshipStatusAccepted,
	).Find(&friendships).Error
	return friendships, err
}

// ListPendingForUser возвращает входящие заявки, ожидающие решения пользователя
func (r *FriendshipRepo) ListPendingForUser(userID uint) ([]entity.Friendship, error) {
	var friendships []entity.Friendship
	err := r.db.Where(
		"addressee_id = ? AND status = ?",
		userID, entity.FriendshipStatusPending,
	).Order("created_at DESC").
		Find(&friendships).Error
	return friendships, err
}
