package service

import (
	"errors"
	"fmt"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	"github.com/yourusername/trivia-duel-api/internal/domain/repository"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// UserService предоставляет методы для работы с пользователями
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetUserByID возвращает пользователя по ID
func (s *UserService) GetUserByID(id uint) (*entity.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return user, nil
}

// GetLeaderboard возвращает лидерборд с пагинацией
func (s *UserService) GetLeaderboard(limit, offset int) ([]entity.User, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	users, total, err := s.userRepo.GetLeaderboard(limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return users, total, nil
}
