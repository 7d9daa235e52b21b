package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// FriendshipRepository определяет методы для работы с графом друзей
type FriendshipRepository interface {
	Create(friendship *entity.Friendship) error
	GetByID(id uint) (*entity.Friendship, error)
	// GetBetween возвращает заявку между двумя пользователями в любом направлении.
	// Если заявки нет, возвращает apperrors.ErrNotFound.
	GetBetween(userA, userB uint) (*entity.Friendship, error)
	UpdateStatus(id uint, status string) error
	// ListAcceptedForUser возвращает принятые дружбы пользователя
	ListAcceptedForUser(userID uint) ([]entity.Friendship, error)
	// ListPendingForUser возвращает входящие заявки пользователя
	ListPendingForUser(userID uint) ([]entity.Friendship, error)
}
