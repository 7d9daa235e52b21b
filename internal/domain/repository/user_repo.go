package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с пользователями
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	// IncrementStats атомарно обновляет игровую статистику: games_played
	// растет на 1, wins и score прибавляются к текущим значениям
	IncrementStats(userID uint, wins int, score int) error
	// GetLeaderboard возвращает пользователей для лидерборда с пагинацией и общим количеством
	GetLeaderboard(limit, offset int) ([]entity.User, int64, error)
}
