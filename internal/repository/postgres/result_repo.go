package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/trivia-duel-api/internal/domain/entity"
	apperrors "github.com/yourusername/trivia-duel-api/internal/pkg/errors"
)

// ResultRepo реализует repository.ResultRepository
type ResultRepo struct {
	db *gorm.DB
}

// NewResultRepo создает новый репозиторий итоговых счетов
func NewResultRepo(db *gorm.DB) *ResultRepo {
	return &ResultRepo{db: db}
}

// Save вставляет итоговый счёт игрока
func (r *ResultRepo) Save(result *entity.ChallengeResult) error {
	return r.db.Create(result).Error
}

// GetByChallengeAndUser возвращает итоговый счёт пользователя в челлендже
func (r *ResultRepo) GetByChallengeAndUser(challengeID, userID uint) (*entity.ChallengeResult, error) {
	var result entity.ChallengeResult
	err := r.db.Where("challenge_id = ? AND user_id = ?", challengeID, userID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// GetByChallenge возвращает все итоговые счета челленджа (0, 1 или 2 записи)
func (r *ResultRepo) GetByChallenge(challengeID uint) ([]entity.ChallengeResult, error) {
	var results []entity.ChallengeResult
	// Пустой слайс — валидный результат, ErrRecordNotFound здесь не проверяем
	err := r.db.Where("challenge_id = ?", challengeID).
		Order("created_at ASC").
		Find(&results).Error
	return results, err
}
