package repository

import (
	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
)

// ResultRepository определяет методы для работы с итоговыми счетами
type ResultRepository interface {
	// Save вставляет итоговый счёт игрока. Повторная вставка для той же пары
	// (челлендж, пользователь) отклоняется уникальным индексом.
	Save(result *entity.ChallengeResult) error
	GetByChallengeAndUser(challengeID, userID uint) (*entity.ChallengeResult, error)
	// GetByChallenge возвращает все итоговые счета челленджа (0, 1 или 2 записи)
	GetByChallenge(challengeID uint) ([]entity.ChallengeResult, error)
}
